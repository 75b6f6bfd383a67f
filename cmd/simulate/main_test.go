package main

import (
	"context"
	"math"
	"testing"

	"physics2d/internal/scene"
)

func TestRunReachesDuration(t *testing.T) {
	f, err := scene.Builtin("collision", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	w, err := f.Build(nil)
	if err != nil {
		t.Fatal(err)
	}

	c := config{TimeStep: 0.01, Duration: 2}
	res, err := run(context.Background(), w, c)
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 200 {
		t.Errorf("Expected 200 steps, got %d", res.Steps)
	}
	// Two equal balls: the centre of mass keeps moving at 1 m/s from x=-1.5.
	if math.Abs(res.CenterOfMass.X()-0.5) > 1e-6 {
		t.Errorf("Expected center of mass at x=0.5, got %v", res.CenterOfMass.X())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	f, _ := scene.Builtin("default", 10, 1)
	w, err := f.Build(nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := run(ctx, w, config{TimeStep: 0.01, Duration: 100})
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 0 {
		t.Errorf("Expected no steps after cancel, got %d", res.Steps)
	}
}
