// SPDX-License-Identifier: EPL-2.0

package entrain

import (
	"testing"

	"github.com/ik5/entrain/engine"
	"github.com/ik5/entrain/schedule"
)

const testRate = 8000

func newTestEngine(t testing.TB) *engine.Engine {
	t.Helper()

	eng, err := engine.New(engine.WithSampleRate(testRate))
	if err != nil {
		t.Fatalf("engine.New() error = %v", err)
	}
	return eng
}

// testProgram is a quiet binaural sweep plus pink noise lasting seconds,
// kept below the normalization ceiling so chunking never changes samples.
func testProgram(seconds float64) *schedule.Schedule {
	return schedule.New(schedule.Metadata{Title: "Test sweep", Author: "entrain tests"}, []schedule.Voice{
		{
			Type: schedule.Binaural,
			Entries: []schedule.Entry{
				{Duration: seconds / 2, BaseStart: 200, BeatHalfStart: 5, VolLStart: 0.4, VolRStart: 0.4},
				{Duration: seconds / 2, BaseStart: 150, BeatHalfStart: 2, VolLStart: 0.2, VolRStart: 0.3},
			},
		},
		{
			Type:    schedule.PinkNoise,
			Entries: []schedule.Entry{{Duration: seconds, VolLStart: 0.1, VolRStart: 0.1}},
		},
	})
}
