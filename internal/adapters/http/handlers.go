package httpadapter

import (
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"svw.info/picreveal/internal/domain"
	"svw.info/picreveal/internal/imageinput"
	"svw.info/picreveal/internal/usecase"
)

// multipart overhead allowed on top of the image itself
const formSlack = 64 << 10

type Handler struct {
	sessions  *usecase.Sessions
	tmpl      *template.Template
	static    http.FileSystem
	maxUpload int64
	log       zerolog.Logger
}

func New(sessions *usecase.Sessions, tmpl *template.Template, static http.FileSystem, maxUpload int64, log zerolog.Logger) *Handler {
	if maxUpload <= 0 {
		maxUpload = imageinput.DefaultMaxBytes
	}
	return &Handler{sessions: sessions, tmpl: tmpl, static: static, maxUpload: maxUpload, log: log}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	if h.tmpl != nil {
		e.GET("/", h.Index)
	}
	if h.static != nil {
		e.GET("/static/*", echo.WrapHandler(http.StripPrefix("/static/", http.FileServer(h.static))))
	}

	api := e.Group("/api")
	api.GET("/state", h.State)
	api.POST("/image", h.Image)
	api.POST("/start", h.Start)
	api.POST("/reveal", h.Reveal)
	api.POST("/random", h.Random)
	api.POST("/reveal-all", h.RevealAll)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type stateResp struct {
	usecase.View
	Reveals  []domain.RevealEvent `json:"reveals,omitempty"`
	Finished bool                 `json:"finished,omitempty"`
	Error    string               `json:"error,omitempty"`
}

type revealReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) Index(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return h.tmpl.ExecuteTemplate(c.Response(), "index.tmpl", map[string]any{})
}

func (h *Handler) controller(c echo.Context) *usecase.Controller {
	player, _ := c.Get(ctxPlayer).(string)
	return h.sessions.Get(c.Request().Context(), player)
}

func (h *Handler) State(c echo.Context) error {
	return c.JSON(http.StatusOK, stateResp{View: h.controller(c).View()})
}

// Image accepts a multipart "image" field or a raw image body.
func (h *Handler) Image(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.maxUpload+formSlack)

	var src io.Reader = req.Body
	if fh, err := c.FormFile("image"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return h.respond(c, usecase.Outcome{}, err)
		}
		defer f.Close()
		src = f
	} else if isTooLarge(err) {
		return h.respond(c, usecase.Outcome{}, err)
	}

	ctl := h.controller(c)
	out, err := ctl.ChooseImage(req.Context(), src)
	if err != nil {
		out.View = ctl.View()
	}
	return h.respond(c, out, err)
}

func (h *Handler) Start(c echo.Context) error {
	out, err := h.controller(c).Start(c.Request().Context())
	return h.respond(c, out, err)
}

func (h *Handler) Reveal(c echo.Context) error {
	var req revealReq
	if err := c.Bind(&req); err != nil || req.Row == nil || req.Col == nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "row and col are required"})
	}
	out, err := h.controller(c).Click(c.Request().Context(), *req.Row, *req.Col)
	return h.respond(c, out, err)
}

func (h *Handler) Random(c echo.Context) error {
	out, err := h.controller(c).RandomReveal(c.Request().Context())
	return h.respond(c, out, err)
}

func (h *Handler) RevealAll(c echo.Context) error {
	out, err := h.controller(c).RevealAll(c.Request().Context())
	return h.respond(c, out, err)
}

func (h *Handler) respond(c echo.Context, out usecase.Outcome, err error) error {
	resp := stateResp{View: out.View, Reveals: out.Reveals, Finished: out.Finished}
	status := http.StatusOK
	switch {
	case err == nil, errors.Is(err, domain.ErrOutOfRange):
		// bad coordinates are ignored, the grid is returned as is
	case errors.Is(err, domain.ErrNoImageSelected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrWrongPhase), errors.Is(err, domain.ErrStaleImage):
		status = http.StatusConflict
	case isTooLarge(err):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidImage):
		status = http.StatusBadRequest
	default:
		requestID, _ := c.Get(ctxRequestID).(string)
		h.log.Error().Err(err).Str("request_id", requestID).Msg("internal error")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
	if status != http.StatusOK {
		resp.Error = err.Error()
	}
	return c.JSON(status, resp)
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.Is(err, imageinput.ErrTooLarge) || errors.As(err, &mbe)
}
