// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package bubblewrap

import (
	"errors"
	"time"
)

const defaultGenerator = "bubblewrap"

type SceneOptions struct {
	// Clock stamps metadata timestamps.
	Clock     func() time.Time
	Generator string
}

type SceneOption func(*SceneOptions) error

func WithClock(clock func() time.Time) SceneOption {
	return func(o *SceneOptions) error {
		if clock == nil {
			return errors.New("WithClock: clock must not be nil")
		}
		o.Clock = clock
		return nil
	}
}

func WithGenerator(name string) SceneOption {
	return func(o *SceneOptions) error {
		if name == "" {
			return errors.New("WithGenerator: name must not be empty")
		}
		o.Generator = name
		return nil
	}
}

func newSceneOptions(setters []SceneOption) (SceneOptions, error) {
	opts := SceneOptions{
		Clock:     time.Now,
		Generator: defaultGenerator,
	}
	for _, set := range setters {
		if err := set(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}
