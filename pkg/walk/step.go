package walk

import (
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
)

// Step combines a session snapshot with its rendered view for rich
// clients (Web, MCP, etc). This encapsulates the common pattern of:
// advance -> view -> return both.
type Step struct {
	Session *domain.Session `json:"session"`
	View    domain.View     `json:"view"`
}

// StartAndView creates a fresh session at the root and renders it.
func StartAndView(engine ports.Engine) (*Step, error) {
	return ResumeAndView(engine, engine.Start())
}

// ResumeAndView renders an existing session without advancing it.
func ResumeAndView(engine ports.Engine, sess *domain.Session) (*Step, error) {
	view, err := engine.View(sess)
	if err != nil {
		return nil, err
	}
	return &Step{Session: sess, View: view}, nil
}

// ChooseAndView performs a choice and immediately renders the resulting
// session. This ensures rich clients always receive the content for the
// node they just entered.
func ChooseAndView(engine ports.Engine, sess *domain.Session, option int) (*Step, error) {
	next, err := engine.Choose(sess, option)
	if err != nil {
		return nil, err
	}
	return ResumeAndView(engine, next)
}

// BackAndView undoes the most recent choice and renders the rewound session.
func BackAndView(engine ports.Engine, sess *domain.Session) (*Step, error) {
	next, err := engine.Back(sess)
	if err != nil {
		return nil, err
	}
	return ResumeAndView(engine, next)
}
