package chords

import "github.com/memtensor/songbook/pkg/types"

var notesSharp = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var notesFlat = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// PitchClass returns the semitone index (0 = C) of a note spelled in either
// the sharp or the flat table. ok is false for spellings in neither, such as
// "E#" or "Cb".
func PitchClass(note string) (index int, ok bool) {
	for i, n := range notesSharp {
		if n == note {
			return i, true
		}
	}
	for i, n := range notesFlat {
		if n == note {
			return i, true
		}
	}
	return 0, false
}

// NoteName spells a pitch class in the given notation. index is reduced
// modulo 12 first.
func NoteName(index int, notation types.Notation) string {
	i := wrap(index)
	if notation == types.NotationFlat {
		return notesFlat[i]
	}
	return notesSharp[i]
}

func wrap(i int) int {
	return ((i % 12) + 12) % 12
}

// shiftNote moves a note by steps semitones; unknown spellings pass through
func shiftNote(note string, steps int, notation types.Notation) string {
	idx, ok := PitchClass(note)
	if !ok {
		return note
	}
	return NoteName(idx+steps, notation)
}

// Transpose shifts root and bass by steps semitones, spelling the result in
// notation. The quality suffix is never altered. Steps of any magnitude or
// sign are accepted.
func Transpose(symbol ChordSymbol, steps int, notation types.Notation) ChordSymbol {
	out := ChordSymbol{
		Root:    shiftNote(symbol.Root, steps, notation),
		Quality: symbol.Quality,
	}
	if symbol.Bass != "" {
		out.Bass = shiftNote(symbol.Bass, steps, notation)
	}
	return out
}

// TransposeChord transposes a chord written as text. Zero steps and anything
// that does not parse as a chord come back unchanged.
func TransposeChord(chord string, steps int, notation types.Notation) string {
	if chord == "" || steps == 0 {
		return chord
	}
	sym := ParseChordSymbol(chord)
	if sym == nil {
		return chord
	}
	if _, ok := PitchClass(sym.Root); !ok {
		return chord
	}
	return Transpose(*sym, steps, notation).String()
}
