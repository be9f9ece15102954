// Package huf implements static Huffman coding of byte streams and the
// ".huf" file format built on top of it.
//
// A stream is compressed by counting how often each byte occurs
// (FrequencyMap), merging the two rarest subtrees until one tree remains
// (BuildTree), reading each leaf's path off the tree (BuildCodeTable), and
// packing the codes into a bitstream terminated by the code of the synthetic
// EndOfStream symbol (Encoder).  The frequency map is stored in front of the
// bitstream (WriteHeader), so a reader can rebuild the identical tree and
// walk it bit by bit (Decoder).
//
// References:
//
//     <https://en.wikipedia.org/wiki/Huffman_coding>
//
package huf
