package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"dentalAssistant/internal/dental"
	"dentalAssistant/internal/events"
	"dentalAssistant/internal/media"
	"dentalAssistant/internal/prompts"
	"dentalAssistant/internal/session"
)

const keepAliveInterval = 25 * time.Second

// Analyzer produces a report for an uploaded image.
type Analyzer interface {
	Analyze(ctx context.Context, img *media.Image) dental.Report
}

// Handler bundles dependencies for the session endpoints.
type Handler struct {
	Analyzer Analyzer
	Events   *events.Broker
}

type imageView struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Filename string `json:"filename,omitempty"`
	Size     int64  `json:"size"`
}

type reportView struct {
	Text       string    `json:"text"`
	Failed     bool      `json:"failed"`
	Model      string    `json:"model,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	DurationMS int64     `json:"duration_ms"`
	Disclaimer string    `json:"disclaimer"`
}

type sessionView struct {
	Image  *imageView  `json:"image"`
	Report *reportView `json:"report"`
}

// GetSession handles GET /api/session.
func (h Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionView{
		Image:  toImageView(state.Image()),
		Report: toReportView(state.Report()),
	})
}

// UploadImage handles POST /api/session/image.
func (h Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, media.MaxImageBytes+(1<<20))
	if err := r.ParseMultipartForm(media.MaxImageBytes + (1 << 20)); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, media.ErrImageTooLarge.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("could not parse form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image_file")
	if err != nil {
		http.Error(w, "image_file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	img, err := media.Ingest(file, header.Filename)
	if err != nil {
		var decodeErr *media.DecodeError
		switch {
		case errors.As(err, &decodeErr):
			http.Error(w, decodeErr.Error(), http.StatusBadRequest)
		case errors.Is(err, media.ErrImageTooLarge):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		default:
			http.Error(w, "could not read file", http.StatusBadRequest)
		}
		return
	}

	state.SetImage(img)
	h.Events.Publish(events.New(state.ID(), events.StatusImage, img.Filename))
	writeJSON(w, http.StatusOK, toImageView(img))
}

// GetImage handles GET /api/session/image by returning the held image as JPEG.
func (h Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(w, r)
	if !ok {
		return
	}
	img := state.Image()
	if img == nil {
		http.Error(w, "no image uploaded", http.StatusNotFound)
		return
	}

	data, err := media.EncodeJPEG(img.Bitmap)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

// Analyze handles POST /api/session/analyze. It blocks until the model answers.
func (h Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(w, r)
	if !ok {
		return
	}
	if h.Analyzer == nil {
		http.Error(w, "dental analysis inactive", http.StatusServiceUnavailable)
		return
	}
	img := state.Image()
	if img == nil {
		http.Error(w, "upload an image first", http.StatusConflict)
		return
	}

	h.Events.Publish(events.New(state.ID(), events.StatusAnalyzing, ""))

	// A closed tab should not discard a report that is already on its way.
	report := h.Analyzer.Analyze(context.WithoutCancel(r.Context()), img)
	state.SetReport(report)

	if report.Failed() {
		log.Printf("analysis failed: %v", report.Err)
		h.Events.Publish(events.New(state.ID(), events.StatusFailed, report.Display()))
	} else {
		h.Events.Publish(events.New(state.ID(), events.StatusComplete, ""))
	}

	writeJSON(w, http.StatusOK, toReportView(&report))
}

// Clear handles DELETE /api/session.
func (h Handler) Clear(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(w, r)
	if !ok {
		return
	}
	state.Clear()
	h.Events.Publish(events.New(state.ID(), events.StatusCleared, ""))
	w.WriteHeader(http.StatusNoContent)
}

// StreamEvents handles GET /api/session/events as a Server-Sent Events stream.
func (h Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	state, ok := stateFrom(w, r)
	if !ok {
		return
	}
	if h.Events == nil {
		http.Error(w, "event stream inactive", http.StatusServiceUnavailable)
		return
	}

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ch := h.Events.Subscribe(state.ID())
	defer h.Events.Unsubscribe(ch)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	if err := rc.Flush(); err != nil {
		return
	}

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case evt, open := <-ch:
			if !open {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				log.Printf("encode event: %v", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", evt.ID, evt.Status, payload); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func stateFrom(w http.ResponseWriter, r *http.Request) (*session.State, bool) {
	state, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "no active session", http.StatusInternalServerError)
	}
	return state, ok
}

func toImageView(img *media.Image) *imageView {
	if img == nil {
		return nil
	}
	return &imageView{
		Width:    img.Width,
		Height:   img.Height,
		Format:   img.Format,
		Filename: img.Filename,
		Size:     img.Size,
	}
}

func toReportView(report *dental.Report) *reportView {
	if report == nil {
		return nil
	}
	return &reportView{
		Text:       report.Display(),
		Failed:     report.Failed(),
		Model:      report.Model,
		CreatedAt:  report.CreatedAt,
		DurationMS: report.Duration.Milliseconds(),
		Disclaimer: prompts.Disclaimer,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write response: %v", err)
	}
}
