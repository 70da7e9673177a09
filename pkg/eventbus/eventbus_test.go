package eventbus_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/freight-dwh/pkg/eventbus"
)

type fileDone struct {
	Name string
}

type fileFailed struct {
	Name string
}

func TestPublish_MatchesHandlerSignature(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)

	var got []string
	bus.Subscribe(func(e fileDone) {
		got = append(got, e.Name)
	})

	bus.Publish(fileDone{Name: "AR_001.xml"})
	bus.Publish(fileFailed{Name: "AR_002.xml"}) // no subscriber, dropped
	bus.Publish(fileDone{Name: "CSL_003.xml"})

	require.Equal(t, []string{"AR_001.xml", "CSL_003.xml"}, got)
}

func TestPublish_RecoversFromHandlerPanic(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)

	calls := 0
	bus.Subscribe(func(e fileDone) {
		panic("boom")
	})
	bus.Subscribe(func(e fileDone) {
		calls++
	})

	require.NotPanics(t, func() {
		bus.Publish(fileDone{Name: "AR_001.xml"})
	})
	require.Equal(t, 1, calls)
}

func TestClear(t *testing.T) {
	bus := eventbus.NewEventPublisher(nil)
	bus.Subscribe(func(e fileDone) {})
	require.Equal(t, 1, bus.SubscribersCount())
	bus.Clear()
	require.Equal(t, 0, bus.SubscribersCount())
}
