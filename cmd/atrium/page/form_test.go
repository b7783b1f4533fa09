package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atrium/internal/a11y"
)

func TestPhoneField_MasksWhileTyping(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	idx := fieldIndex(t, m, "phone")
	m = focusStop(t, m, FocusField, idx)

	m = typeText(t, m, "11")
	assert.Equal(t, "(11", m.form.value(idx))

	m = typeText(t, m, "9876")
	assert.Equal(t, "(11) 9876", m.form.value(idx))

	m = typeText(t, m, "54321")
	assert.Equal(t, "(11) 98765-4321", m.form.value(idx))

	// Letters and surplus digits fall out of the mask.
	m = typeText(t, m, "x9")
	assert.Equal(t, "(11) 98765-4321", m.form.value(idx))

	m = press(t, m, "backspace")
	assert.Equal(t, "(11) 98765-432", m.form.value(idx))
}

func TestFieldValidation_OnBlurThenRepairWhileTyping(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	idx := fieldIndex(t, m, "email")
	m = focusStop(t, m, FocusField, idx)
	m = typeText(t, m, "nope")

	// Typing into a clean field stays quiet.
	require.False(t, m.form.controls[idx].invalid)

	// Leaving it speaks up and marks the field.
	m = press(t, m, "tab")
	require.True(t, m.form.controls[idx].invalid)
	assert.NotEmpty(t, m.form.controls[idx].errText)
	assert.Equal(t, a11y.Assertive, m.ctx.Voice.CurrentPriority())
	assert.Contains(t, sectionBlock(t, m, "contact"), "✗")

	// An invalid field re-validates on every keystroke and recovers the
	// moment the value passes, before any blur.
	m = focusStop(t, m, FocusField, idx)
	m = typeText(t, m, "@example.com")
	assert.False(t, m.form.controls[idx].invalid)
	assert.Equal(t, "nope@example.com", m.form.value(idx))
	assert.NotContains(t, sectionBlock(t, m, "contact"), "✗")
}

func TestSelectField_CyclesChoices(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	idx := fieldIndex(t, m, "topic")
	m = focusStop(t, m, FocusField, idx)

	require.Empty(t, m.form.value(idx))

	m = press(t, m, " ")
	assert.Equal(t, "General", m.form.value(idx))
	m = press(t, m, " ")
	assert.Equal(t, "Support", m.form.value(idx))
	m = press(t, m, " ")
	assert.Equal(t, "General", m.form.value(idx))

	m = press(t, m, "left")
	assert.Equal(t, "Support", m.form.value(idx))
}

func TestTextarea_EnterInsertsNewline(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	idx := fieldIndex(t, m, "message")
	m = focusStop(t, m, FocusField, idx)

	m = typeText(t, m, "hello")
	m = press(t, m, "enter")
	m = typeText(t, m, "there")

	assert.Equal(t, "hello\nthere", m.form.value(idx))
	assert.Equal(t, FormIdle, m.form.Phase())
}

func TestSingleLineInput_EnterSubmits(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	m = fillValidForm(t, m)
	m = focusStop(t, m, FocusField, fieldIndex(t, m, "name"))

	m = press(t, m, "enter")
	assert.Equal(t, FormSubmitting, m.form.Phase())
}

func TestForm_EditsDropWhileSending(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	m = fillValidForm(t, m)
	m = focusStop(t, m, FocusSubmit, 0)
	m = press(t, m, "enter")
	require.Equal(t, FormSubmitting, m.form.Phase())

	name := fieldIndex(t, m, "name")
	before := m.form.value(name)
	m = focusStop(t, m, FocusField, name)
	m = typeText(t, m, "zzz")
	assert.Equal(t, before, m.form.value(name))
}

func TestForm_ValuesKeyedBySpecName(t *testing.T) {
	t.Parallel()

	m := NewTestModel(WithReducedMotion())
	m = sized(t, m, 80, 24)
	m = fillValidForm(t, m)

	vals := m.form.Values()
	assert.Equal(t, "Ada Lovelace", vals["name"])
	assert.Equal(t, "ada@example.com", vals["email"])
	assert.Equal(t, "(11) 98765-4321", vals["phone"])
	assert.Equal(t, "General", vals["topic"])
	assert.Len(t, vals, 5)
}
