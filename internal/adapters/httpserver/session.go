package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/phenrril/pcbuilder/internal/domain"
)

const buildCookie = "build"

// buildState is what the cookie carries: the abbreviated parts of a saved
// build. Parts are resolved against the catalog on every request; the name
// and price let a retired part stay in the build, flagged stale.
type buildState struct {
	Name  string                 `json:"n,omitempty"`
	Parts domain.BuildComponents `json:"c,omitempty"`
}

func (s *Server) sign(payload []byte) []byte {
	h := hmac.New(sha256.New, s.sessionKey)
	h.Write(payload)
	return h.Sum(nil)
}

// readState returns the empty state for a missing, tampered or unreadable
// cookie.
func (s *Server) readState(r *http.Request) buildState {
	c, err := r.Cookie(buildCookie)
	if err != nil {
		return buildState{}
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return buildState{}
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	if !hmac.Equal(sig, s.sign(payload)) {
		return buildState{}
	}
	var st buildState
	if err := json.Unmarshal(payload, &st); err != nil {
		return buildState{}
	}
	return st
}

func (s *Server) writeState(w http.ResponseWriter, st buildState) {
	b, _ := json.Marshal(st)
	val := base64.RawURLEncoding.EncodeToString(s.sign(b)) + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: buildCookie, Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

func (s *Server) session(r *http.Request) (*domain.Session, error) {
	st := s.readState(r)
	return s.builds.Resume(r.Context(), st.Name, st.Parts)
}

func (s *Server) writeSession(w http.ResponseWriter, sess *domain.Session) {
	s.writeState(w, buildState{Name: sess.Name, Parts: sess.Selection.Refs()})
}

type slotView struct {
	domain.SlotConfig
	Count      int                `json:"count"`
	Components []domain.Component `json:"components"`
}

type buildView struct {
	Name         string                  `json:"name,omitempty"`
	Slots        []slotView              `json:"slots"`
	TotalPrice   float64                 `json:"total_price"`
	TotalWattage float64                 `json:"total_wattage"`
	PSUCapacity  float64                 `json:"psu_capacity,omitempty"`
	PSULoad      float64                 `json:"psu_load_percent,omitempty"`
	Issues       []string                `json:"compatibility_issues"`
	Compatible   bool                    `json:"compatible"`
	Complete     bool                    `json:"complete"`
	Missing      []domain.Category       `json:"missing_required"`
	Stale        []domain.StaleReference `json:"stale,omitempty"`
}

func viewOf(sess *domain.Session) buildView {
	sel := sess.Selection
	v := buildView{
		Name:         sess.Name,
		TotalPrice:   sess.Totals.Price,
		TotalWattage: sess.Totals.Wattage,
		Issues:       sess.Issues,
		Compatible:   sess.Compatible(),
		Complete:     sel.IsComplete(),
		Missing:      sel.MissingRequired(),
		Stale:        sess.Stale,
	}
	if v.Missing == nil {
		v.Missing = []domain.Category{}
	}
	for _, slot := range domain.Categories() {
		comps := sel.Components(slot.Category)
		if comps == nil {
			comps = []domain.Component{}
		}
		v.Slots = append(v.Slots, slotView{SlotConfig: slot, Count: len(comps), Components: comps})
	}
	if psu, ok := sel.First(domain.CategoryPSU); ok {
		v.PSUCapacity = psu.Compatibility.WattageCapacity
		v.PSULoad = sess.Totals.LoadPercent(v.PSUCapacity)
	}
	return v
}
