package view_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradepack/cmd/tui/internal/view"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "$1250.50", view.FormatMoney(decimal.RequireFromString("1250.5")))
	assert.Equal(t, "$0.00", view.FormatMoney(decimal.Zero))
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "-", view.FormatTime(nil))

	ts := time.Date(2026, 3, 9, 9, 30, 0, 0, time.Local)
	assert.Equal(t, "2026-03-09 09:30", view.FormatTime(&ts))
}

func typeInto(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}

	return m
}

func TestJobPicker(t *testing.T) {
	t.Run("valid id selects job", func(t *testing.T) {
		id := uuid.New()

		m := typeInto(view.NewJobPickerModel("Job Documents"), id.String())
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		require.NotNil(t, cmd)

		assert.Equal(t, view.JobSelectedMsg{JobID: id}, cmd())
	})

	t.Run("invalid id shows error", func(t *testing.T) {
		m := typeInto(view.NewJobPickerModel("Job Documents"), "not-a-job")
		m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

		assert.Nil(t, cmd)
		assert.Contains(t, m.View(), "Not a valid job id")
	})

	t.Run("esc goes back", func(t *testing.T) {
		_, cmd := view.NewJobPickerModel("Quote Versions").Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)

		assert.Equal(t, view.BackMsg{}, cmd())
	})
}
