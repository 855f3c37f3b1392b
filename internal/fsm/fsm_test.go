package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type light string
type signal string

func trafficLight() *Machine[light, signal] {
	return New("light",
		Transition[light, signal]{From: "red", Event: "go", To: "green"},
		Transition[light, signal]{From: "green", Event: "slow", To: "amber"},
		Transition[light, signal]{From: "green", Event: "halt", To: "off"},
		Transition[light, signal]{From: "amber", Event: "stop", To: "red"},
	)
}

func TestFire(t *testing.T) {
	m := trafficLight()

	tests := []struct {
		name    string
		from    light
		event   signal
		want    light
		wantErr bool
	}{
		{name: "allowed", from: "red", event: "go", want: "green"},
		{name: "second hop", from: "green", event: "slow", want: "amber"},
		{name: "unknown event", from: "red", event: "slow", wantErr: true},
		{name: "unknown state", from: "blue", event: "go", wantErr: true},
		{name: "terminal state", from: "off", event: "go", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Fire(tt.from, tt.event)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.Contains(t, err.Error(), "light")
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIntrospection(t *testing.T) {
	m := trafficLight()

	assert.Equal(t, "light", m.Name())
	assert.True(t, m.Can("green", "halt"))
	assert.False(t, m.Can("amber", "go"))
	assert.Equal(t, []signal{"slow", "halt"}, m.Events("green"))
	assert.Empty(t, m.Events("off"))
	assert.Equal(t, []light{"red", "green", "amber", "off"}, m.States())
	assert.True(t, m.Terminal("off"))
	assert.False(t, m.Terminal("red"))

	events := m.Events("green")
	events[0] = "mutated"
	assert.Equal(t, []signal{"slow", "halt"}, m.Events("green"))
}

func TestNewDuplicates(t *testing.T) {
	assert.NotPanics(t, func() {
		New("dup",
			Transition[string, string]{From: "a", Event: "x", To: "b"},
			Transition[string, string]{From: "a", Event: "x", To: "b"},
		)
	})
	assert.Panics(t, func() {
		New("conflict",
			Transition[string, string]{From: "a", Event: "x", To: "b"},
			Transition[string, string]{From: "a", Event: "x", To: "c"},
		)
	})
}
