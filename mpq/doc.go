/*
Package mpq implements decoding of the MoPaQ ("MPQ") archive format used by
StarCraft II replay files.

Information sources:

The MoPaQ format as documented by the Zezula StormLib project and its many
derivatives (this implementation follows the same table layout, crypt table
construction, and hash-probe algorithm as those references).

Writing or mutating archives is out of scope; this package only reads.
*/
package mpq
