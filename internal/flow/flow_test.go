package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationScenario(t *testing.T) {
	def := Registration()
	state, prompt := Start(def)

	assert.Equal(t, "Введите ваше имя:", prompt)
	assert.True(t, state.Active())
	assert.Empty(t, state.Collected)

	inputs := []string{"Alice", "15.06.1990", "+79991234567", "password1"}

	var res Result
	for _, input := range inputs {
		state, res = Submit(def, state, input)
		require.NoError(t, res.Invalid)
	}

	assert.True(t, res.Done)
	assert.Equal(t, map[string]string{
		FieldName:      "Alice",
		FieldBirthDate: "15.06.1990",
		FieldPhone:     "+79991234567",
		FieldPassword:  "password1",
	}, res.Collected)
	assert.False(t, state.Active(), "flow state must return to idle")
}

func TestLoginScenario(t *testing.T) {
	def := Login()
	state, prompt := Start(def)
	assert.Equal(t, "Введите номер телефона (формат +7XXXXXXXXXX):", prompt)

	state, res := Submit(def, state, "+79991234567")
	require.NoError(t, res.Invalid)
	assert.False(t, res.Done)

	state, res = Submit(def, state, "secret")
	assert.True(t, res.Done)
	assert.Equal(t, "+79991234567", res.Collected[FieldPhone])
	assert.Equal(t, "secret", res.Collected[FieldPassword])
	assert.False(t, state.Active())
}

func TestSubmitInvalidInputKeepsStep(t *testing.T) {
	def := Login()
	state, _ := Start(def)

	next, res := Submit(def, state, "89991234567")

	require.Error(t, res.Invalid)
	assert.False(t, res.Done)
	assert.Equal(t, state.Step, next.Step)
	assert.Equal(t, def.Fields[0].Prompt, res.Prompt, "same prompt must be re-emitted")
	assert.NotContains(t, next.Collected, FieldPhone,
		"current step's field must not be collected until validated")
}

func TestBackAtFirstStepCancels(t *testing.T) {
	def := Registration()
	state, _ := Start(def)

	next, res := Submit(def, state, BackToken)

	assert.True(t, res.Cancelled)
	assert.False(t, next.Active())
}

func TestBackTokenCheckedBeforeValidator(t *testing.T) {
	def := Registration()
	state, _ := Start(def)

	// Advance to the birth date step; the back token would never pass its
	// validator, so it must be intercepted first.
	state, res := Submit(def, state, "Alice")
	require.NoError(t, res.Invalid)

	next, res := Submit(def, state, BackToken)
	require.NoError(t, res.Invalid)
	assert.False(t, res.Cancelled)
	assert.Equal(t, 0, next.Step)
	assert.Equal(t, def.Fields[0].Prompt, res.Prompt)
}

func TestBackDiscardsFieldAndRoundTrips(t *testing.T) {
	def := Registration()
	state, _ := Start(def)

	state, _ = Submit(def, state, "Alice")
	state, _ = Submit(def, state, "15.06.1990")
	original := map[string]string{}
	for k, v := range state.Collected {
		original[k] = v
	}

	state, res := Back(def, state)
	require.NoError(t, res.Invalid)
	assert.Equal(t, 1, state.Step)
	assert.NotContains(t, state.Collected, FieldBirthDate,
		"value of the step being returned to must be discarded")
	assert.Equal(t, "Alice", state.Collected[FieldName])
	assert.Equal(t, def.Fields[1].Prompt, res.Prompt)

	// Re-submitting the same value reproduces the original collected state.
	state, res = Submit(def, state, "15.06.1990")
	require.NoError(t, res.Invalid)
	assert.Equal(t, original, state.Collected)
}

func TestStaleStepCancels(t *testing.T) {
	def := Login()

	// State persisted under a longer field list than the current
	// definition has.
	stale := State{Kind: KindLogin, Step: 5, Collected: map[string]string{}}

	next, res := Submit(def, stale, "+79991234567")
	assert.True(t, res.Cancelled)
	assert.False(t, next.Active())

	next, res = Back(def, stale)
	assert.True(t, res.Cancelled)
	assert.False(t, next.Active())

	next, res = Submit(def, State{Kind: KindLogin, Step: -1}, "+79991234567")
	assert.True(t, res.Cancelled)
	assert.False(t, next.Active())
}

func TestSubmitDoesNotMutateSharedState(t *testing.T) {
	def := Registration()
	state, _ := Start(def)

	state, _ = Submit(def, state, "Alice")
	before := state.Collected[FieldName]

	_, _ = Submit(def, state, "15.06.1990")
	_, _ = Back(def, state)

	assert.Equal(t, before, state.Collected[FieldName])
	assert.Len(t, state.Collected, 1)
}
