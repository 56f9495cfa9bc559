// Package web serves the calculator UI over HTTP.
//
// Pages render server side; keypad presses post back over HTMX and swap the
// display register in place. Websocket mirrors at /ws receive every display
// update for the session they watch.
package web

import (
	"context"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/a-h/templ"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/websocket"
	"golang.org/x/text/language"

	"github.com/louisbranch/reckon.space/internal/engine"
	"github.com/louisbranch/reckon.space/internal/history"
	"github.com/louisbranch/reckon.space/internal/keymap"
	"github.com/louisbranch/reckon.space/internal/session"
	"github.com/louisbranch/reckon.space/internal/token"
	"github.com/louisbranch/reckon.space/internal/web/htmx"
	"github.com/louisbranch/reckon.space/internal/web/i18n"
	"github.com/louisbranch/reckon.space/internal/web/templates"
)

const (
	// SessionCookieName carries the signed calculator session token.
	SessionCookieName = "reckon_session"

	// historyPageSize caps how many entries the history panel shows.
	historyPageSize = 20

	cookieTTL = 30 * 24 * time.Hour
)

// Handler serves the calculator routes.
type Handler struct {
	sessions *session.Manager
	store    history.Store
	recorder *history.Recorder
	signer   *token.Signer
	hub      *mirrorHub
}

// NewHandler builds the HTTP handler for the calculator UI.
//
// store may be nil, in which case history panels render empty and nothing is
// persisted.
func NewHandler(sessions *session.Manager, store history.Store, signer *token.Signer) http.Handler {
	h := &Handler{
		sessions: sessions,
		store:    store,
		recorder: history.NewRecorder(store),
		signer:   signer,
		hub:      newMirrorHub(),
	}
	return h.routes()
}

func (h *Handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.handleIndex(w, r)
	})
	mux.HandleFunc("/keys", requireMethod(http.MethodPost, h.handleKeys))
	mux.HandleFunc("/history", requireMethod(http.MethodGet, h.handleHistory))
	mux.HandleFunc("/history/clear", requireMethod(http.MethodPost, h.handleHistoryClear))
	mux.Handle("/ws", websocket.Handler(h.handleWS))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	return mux
}

func requireMethod(method string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			w.Header().Set("Allow", method)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next(w, r)
	}
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	tag, pageCopy := h.localize(w, r)
	sessionID := h.ensureSession(w, r)
	state := h.sessions.State(sessionID)

	page := templates.Page(calculatorView(state, tag, pageCopy), h.historyView(r.Context(), sessionID, pageCopy))
	htmx.RenderPage(w, r, nil, page)
}

func (h *Handler) handleKeys(w http.ResponseWriter, r *http.Request) {
	_, pageCopy := h.localize(w, r)
	key := strings.TrimSpace(r.PostFormValue("key"))
	ev, err := keymap.Resolve(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessionID := h.ensureSession(w, r)
	ctx, span := otel.Tracer("reckon.space/web").Start(r.Context(), "calculator.apply",
		trace.WithAttributes(attribute.String("calculator.key", key)))
	defer span.End()

	state, calc := h.sessions.Apply(sessionID, ev)
	if calc != nil {
		if err := h.recorder.Record(ctx, sessionID, *calc); err != nil {
			log.Printf("record calculation: %v", err)
		}
	}
	h.hub.broadcast(displayFrame{
		SessionID: sessionID,
		Display:   state.Display,
		Errored:   state.Errored(),
	})

	if htmx.IsRequest(r) {
		view := templates.CalculatorView{Display: state.Display, Errored: state.Errored(), Copy: pageCopy}
		fragment := templates.Display(view)
		if calc != nil {
			// Refresh the history panel out of band when a calculation lands.
			fragment = join(fragment, oobHistory(h.historyView(ctx, sessionID, pageCopy)))
		}
		htmx.RenderPage(w, r, fragment, nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	tag, pageCopy := h.localize(w, r)
	sessionID := h.ensureSession(w, r)
	view := h.historyView(r.Context(), sessionID, pageCopy)

	state := h.sessions.State(sessionID)
	page := templates.Page(calculatorView(state, tag, pageCopy), view)
	htmx.RenderPage(w, r, templates.History(view), page)
}

func (h *Handler) handleHistoryClear(w http.ResponseWriter, r *http.Request) {
	_, pageCopy := h.localize(w, r)
	sessionID := h.ensureSession(w, r)
	if h.store != nil {
		if _, err := h.store.ClearEntries(r.Context(), sessionID); err != nil {
			log.Printf("clear history: %v", err)
			http.Error(w, "could not clear history", http.StatusInternalServerError)
			return
		}
	}
	if htmx.IsRequest(r) {
		htmx.RenderPage(w, r, templates.History(templates.HistoryView{Copy: pageCopy}), nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleWS mirrors display updates for one session. The session id comes from
// the signed cookie on the upgrade request; frames flow server to client only.
func (h *Handler) handleWS(conn *websocket.Conn) {
	defer conn.Close()

	sessionID := h.sessionFromRequest(conn.Request())
	if sessionID == "" {
		return
	}
	peer := newWSPeer(conn)
	h.hub.join(sessionID, peer)
	defer h.hub.leave(sessionID, peer)

	state := h.sessions.State(sessionID)
	if err := peer.writeFrame(displayFrame{
		SessionID: sessionID,
		Display:   state.Display,
		Errored:   state.Errored(),
	}); err != nil {
		return
	}

	// Drain client frames until the peer hangs up.
	for {
		var discard string
		if err := websocket.Message.Receive(conn, &discard); err != nil {
			return
		}
	}
}

// sessionFromRequest verifies the session cookie without creating a session.
func (h *Handler) sessionFromRequest(r *http.Request) string {
	if r == nil {
		return ""
	}
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	sessionID, err := h.signer.Verify(cookie.Value)
	if err != nil {
		return ""
	}
	return sessionID
}

// ensureSession returns the request's session id, creating a session and
// setting a fresh signed cookie when none is present or the token fails
// verification.
func (h *Handler) ensureSession(w http.ResponseWriter, r *http.Request) string {
	if sessionID := h.sessionFromRequest(r); sessionID != "" {
		return sessionID
	}

	sessionID, err := h.sessions.Create()
	if err != nil {
		log.Printf("create session: %v", err)
		return ""
	}
	signed, err := h.signer.Issue(sessionID)
	if err != nil {
		log.Printf("issue session token: %v", err)
		return sessionID
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(cookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}

func (h *Handler) localize(w http.ResponseWriter, r *http.Request) (language.Tag, i18n.Copy) {
	tag, persist := i18n.ResolveTag(r)
	if persist {
		http.SetCookie(w, &http.Cookie{
			Name:     i18n.LangCookieName,
			Value:    tag.String(),
			Path:     "/",
			MaxAge:   int(cookieTTL / time.Second),
			SameSite: http.SameSiteLaxMode,
		})
	}
	return tag, i18n.For(tag)
}

func (h *Handler) historyView(ctx context.Context, sessionID string, pageCopy i18n.Copy) templates.HistoryView {
	view := templates.HistoryView{Copy: pageCopy}
	if h.store == nil || sessionID == "" {
		return view
	}
	entries, err := h.store.ListEntries(ctx, sessionID, historyPageSize)
	if err != nil {
		log.Printf("list history: %v", err)
		return view
	}
	for _, entry := range entries {
		view.Rows = append(view.Rows, templates.HistoryRow{
			Expression: entry.Expression,
			Result:     engine.Format(entry.Result),
			When:       entry.CreatedAt.UTC().Format("2006-01-02 15:04"),
		})
	}
	return view
}

func calculatorView(state engine.State, tag language.Tag, pageCopy i18n.Copy) templates.CalculatorView {
	return templates.CalculatorView{
		Display: state.Display,
		Errored: state.Errored(),
		Lang:    tag.String(),
		Copy:    pageCopy,
	}
}

func join(components ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range components {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// oobHistory wraps the history fragment for an out-of-band HTMX swap.
func oobHistory(view templates.HistoryView) templ.Component {
	inner := templates.History(view)
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div hx-swap-oob="outerHTML:#history">`); err != nil {
			return err
		}
		if err := inner.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
