package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/searchsync/searchsync/internal/sync"
)

func previewResult() *sync.ImportResult {
	return &sync.ImportResult{
		Success: true,
		DryRun:  true,
		Mode:    "merge",
		Imported: sync.ImportedCounts{
			Engines: 1,
		},
		Plan: []sync.PlanStep{
			{Name: "DuckDuckGo", Action: sync.ActionAdd},
			{Name: "Startpage", Action: sync.ActionSkip, Note: "duplicate name or URL"},
		},
		Warnings: []string{"skipped duplicate engine: Startpage"},
	}
}

func TestNewPlanListModel(t *testing.T) {
	m := NewPlanListModel(previewResult())

	if len(m.table.Rows()) != 2 {
		t.Fatalf("expected 2 plan rows, got %d", len(m.table.Rows()))
	}
	if m.Result().Action != PlanActionNone {
		t.Errorf("initial action = %v, want none", m.Result().Action)
	}
}

func TestPlanListModel_ConfirmApplies(t *testing.T) {
	m := NewPlanListModel(previewResult())

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = newModel.(PlanListModel)

	if cmd == nil {
		t.Fatal("expected quit command after confirmation")
	}
	if m.Result().Action != PlanActionApply {
		t.Errorf("action = %v, want apply", m.Result().Action)
	}
}

func TestPlanListModel_QuitCancels(t *testing.T) {
	m := NewPlanListModel(previewResult())

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = newModel.(PlanListModel)

	if cmd == nil {
		t.Fatal("expected quit command after cancel")
	}
	if m.Result().Action != PlanActionNone {
		t.Errorf("action = %v, want none", m.Result().Action)
	}
}

func TestPlanListModel_View(t *testing.T) {
	m := NewPlanListModel(previewResult())

	view := m.View()
	if !strings.Contains(view, "Import Plan") {
		t.Error("view should render the title")
	}
	if !strings.Contains(view, "DuckDuckGo") {
		t.Error("view should render plan rows")
	}
	if !strings.Contains(view, "1 to add") {
		t.Error("view should render the summary line")
	}

	// After quitting, the view clears.
	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = newModel.(PlanListModel)
	if m.View() != "" {
		t.Error("view should be empty after quit")
	}
}
