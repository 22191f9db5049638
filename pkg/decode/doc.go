// Package decode recovers track data from raw magnetic-stripe bit captures.
//
// A Decoder holds an ordered list of candidate formats and tries each one
// against an independent cursor over the same read-only bit stream; the
// first format that validates end-to-end wins. Candidates are tried in the
// exact order provided.
//
// # Decode pipeline
//
// Each attempt runs the same sequence regardless of variant:
//
//  1. Locate the start sentinel by sliding a character-width window bit by
//     bit from the head of the stream, bounded by a leading-noise tolerance
//     window that absorbs the head gap of a physical swipe.
//  2. Decode characters at character-aligned offsets after the sentinel.
//     Each raw window is normalized (bit order at extraction, then
//     inversion), compared against the end sentinel, parity-checked, and
//     looked up in the format's character map.
//  3. After the end sentinel, read the LRC character and compare it against
//     the XOR of the data bits over start sentinel, data characters, and
//     end sentinel, with the parity bit completed per the format's scheme.
//
// Raw (sentinel-less) formats skip steps 1 and 3 and decode the remainder
// of the stream directly after any fixed header skip.
//
// # Failure semantics
//
// Per-candidate failures are recovered locally: the orchestrator records
// the reason and moves to the next candidate. Only total exhaustion
// surfaces, as a NoValidFormatError carrying every per-format reason.
// Decoding is deterministic over fixed input, so nothing is ever retried.
//
// By default validation is strict. The Lenient option tolerates a missing
// or mismatched LRC, returning the decoded data with Output.LRCValid set
// to false; parity and sentinel failures still fail the attempt.
//
// # Usage
//
//	stream, err := bitstream.New(raw, bits)
//	if err != nil {
//	    return err
//	}
//	dec := decode.NewDecoder(format.Standard())
//	out, err := dec.Decode(stream)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%s: %s\n", out.Format.Name(), out.Data)
package decode
