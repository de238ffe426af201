package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/parley/internal/catalog"
	"github.com/abhisek/parley/internal/config"
	"github.com/abhisek/parley/internal/screens/chat"
	"github.com/abhisek/parley/internal/screens/quiz"
	"github.com/abhisek/parley/internal/screens/welcome"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	return Deps{Catalog: cat, Config: config.DefaultConfig()}
}

func TestNewAppModel_Welcome(t *testing.T) {
	m, err := newAppModel(testDeps(t), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("expected welcome screen, got %T", m.router.Active())
	}
}

func TestNewAppModel_StartScenario(t *testing.T) {
	m, err := newAppModel(testDeps(t), "coffee")
	if err != nil {
		t.Fatal(err)
	}
	m.Update(m.Init()())
	if m.router.Depth() != 2 {
		t.Errorf("expected home under the scenario, depth %d", m.router.Depth())
	}
	if _, ok := m.router.Active().(*chat.ChatScreen); !ok {
		t.Errorf("expected chat screen, got %T", m.router.Active())
	}
	m.router.Close()
}

func TestNewAppModel_StartTopic(t *testing.T) {
	m, err := newAppModel(testDeps(t), "drinks")
	if err != nil {
		t.Fatal(err)
	}
	m.Update(m.Init()())
	if _, ok := m.router.Active().(*quiz.QuizScreen); !ok {
		t.Errorf("expected quiz screen, got %T", m.router.Active())
	}
	m.router.Close()
}

func TestNewAppModel_UnknownStart(t *testing.T) {
	if _, err := newAppModel(testDeps(t), "nope"); err == nil {
		t.Error("expected an error for an unknown id")
	}
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m, _ := newAppModel(testDeps(t), "")
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestFooterHints_FromScreen(t *testing.T) {
	m, _ := newAppModel(testDeps(t), "coffee")
	m.Update(m.Init()())
	defer m.router.Close()
	hints := m.footerHints(m.router.Active())
	if len(hints) < 2 || hints[len(hints)-1].Key != "Ctrl+C" {
		t.Errorf("unexpected hints %+v", hints)
	}
}
