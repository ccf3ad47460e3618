/*
Package flow provides a latest-value broadcast cell.

A StateFlow holds exactly one value. Every subscriber receives the current value as
soon as it subscribes and afterwards the most recent value whenever it changes.
Intermediate values are dropped for slow subscribers (conflation): a subscriber is
never more than one value behind and the writer never blocks on a reader.
*/
package flow
