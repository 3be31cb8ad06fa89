// SPDX-License-Identifier: EPL-2.0

// Package schedule reads and writes Gnaural entrainment programs.
//
// A program is a set of voices, each a list of keyframe entries. An entry
// holds a base frequency, a beat frequency and a left/right volume, and
// ramps linearly toward the next entry over its duration; the last entry
// ramps toward the first so a looping voice closes smoothly.
//
//	s, err := schedule.Parse(f)
//	if errors.Is(err, schedule.ErrMalformedSource) {
//	    // not XML
//	}
//
// # Document Format
//
// The first <schedule> element is the root. Metadata lives in child
// elements (title, author, schedule_description, totaltime, loops,
// overallvolume_left, overallvolume_right) and voices are direct <voice>
// children. Entry fields may be given as attributes or as child elements:
//
//	<entry duration="60" basefreq="220" beatfreq="4" volume_left="0.7" volume_right="0.7"/>
//
// Missing values fall back to defaults: volume 0.7, frequencies and
// duration 0. Entries with a non-positive duration are dropped. Volumes are
// clamped to [0, 1.5] and frequencies to be non-negative.
//
// # Tails
//
// The program length is the largest of the declared total time, the
// longest voice and one second. A voice shorter than that gets a tail: a
// synthetic entry that holds the final values of its last entry until the
// program ends. The tail has no spread, so the wrap-around ramp of the
// last entry never reaches the first entry's values on such voices.
//
// # Writing
//
// Marshal and Schedule.WriteTo produce a document Parse reads back into an
// equivalent program. Tails are never written.
package schedule
