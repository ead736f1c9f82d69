// Package cursor provides the selection model for the editing core.
//
// A Selection is an inclusive range of character indices described by a
// primary index (the end that motion commands move) and a secondary index
// (the end that stays put while extending). When both indices are equal the
// selection is collapsed and covers exactly the character under the cursor.
//
//	sel := cursor.NewSelection(4)      // collapsed on index 4
//	sel = sel.Extend(9)                // primary 9, secondary 4
//	sel.Smallest(), sel.Biggest()      // 4, 9
//	sel.Len()                          // 6
//
// # Offset
//
// Offset remembers the column the selection wants to sit on when it moves
// vertically across lines of different length.
//
// # Modes
//
// Mode is the editing granularity of a view: Character, Word or Line. The mode
// belongs to the view, not to an individual selection; switching modes
// re-derives the extent of every selection.
package cursor
