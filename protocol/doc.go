package protocol

// This package implements the message model and wire encoding that Eos family
// lighting consoles use for OSC over TCP.
//
// - `Message` - An OSC address plus a positional list of typed arguments.
// - `Argument` - One typed value. Meaning is assigned by position, per address.
// - `Frame` - One SLIP delimited chunk of the byte stream. Each frame carries
//             exactly one OSC packet.
//
// === Framing
//
// OSC 1.1 over a stream uses SLIP (RFC 1055) to mark packet boundaries:
//
//   ```
//     END <osc packet, with END and ESC bytes escaped> END
//   ```
//
// A corrupt frame only loses that frame, the decoder resynchronises on the
// next END byte.
//
// === Arguments
//
// Supported type tags are `i`, `h`, `f`, `d`, `s`, `S`, `b`, `t`, `T`, `F`, `N`
// and `I`. Decoding never validates argument types, the typed accessors on
// Argument do that when a value is read.
//
// === The list convention
//
// Eos splits messages with long argument lists over several wire messages
// that share an address suffix:
//
//   ```
//     /eos/out/get/group/1/list/0/5, 0(i), <uid>(s), 1(i)
//     /eos/out/get/group/1/list/3/5, 2(i), 3(i)
//   ```
//
// `<index>` is the position of the chunk's first argument in the full list and
// `<count>` is the size of the full list. ListJoiner puts these back together
// so callers only ever see `/eos/out/get/group/1` with five arguments.
//
// === Target numbers
//
// Record targets (cues, groups, channels...) are identified by numbers that
// can be fractional ("1.5") and that the console sometimes sends as strings.
// Lists of target numbers may contain ranges such as "3-5".
//
