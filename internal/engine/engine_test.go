package engine_test

import (
	"time"

	"github.com/calvinalkan/yahtl/internal/ambient"
	"github.com/calvinalkan/yahtl/internal/clock"
	"github.com/calvinalkan/yahtl/internal/engine"
	"github.com/calvinalkan/yahtl/internal/model"
)

// wednesday noon, business hours.
var testNow = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

type fakeSensors = map[string]string

type fakePresence []engine.EntityState

func (f fakePresence) Persons() []engine.EntityState { return f }

func newEngine(sensors fakeSensors, now time.Time) *engine.Engine {
	return engine.New(ambient.Static(sensors), clock.Fake(now), nil)
}

func newItem(uid, title string) *model.Item {
	it := model.NewItem(title, "tester", testNow.Add(-time.Hour))
	it.UID = uid

	return it
}

func listOf(id string, items ...*model.Item) *model.List {
	l := model.NewList(id, id)
	for _, it := range items {
		l.AddItem(it)
	}

	return l
}

func completions(times ...time.Time) []model.CompletionRecord {
	out := make([]model.CompletionRecord, 0, len(times))
	for _, ts := range times {
		out = append(out, model.CompletionRecord{UserID: "tester", Timestamp: ts})
	}

	return out
}

func daysAgo(days float64) time.Time {
	return testNow.Add(-time.Duration(days * float64(24*time.Hour)))
}

func ptr[T any](v T) *T { return &v }
