// The gosomfy Somfy RTS receiver
//
// Decodes the radio frames sent by Somfy RTS remotes (blinds, awnings,
// shutters) from demodulated pulse rows, and publishes button presses onto a
// gohome-style mqtt event bus.
//
// # Features
//
// - Decodes first frames and retransmissions (rtl_433 codes notation)
//
// - Descrambling and checksum validation of the 7 byte payload
//
// - Maps remote addresses to named devices
//
// - Suppresses repeated frames from a held button
//
// - Prometheus counters of decode outcomes and commands
//
// - Queryable over the event bus (status, remotes)
//
// # Services supported
//
// - somfy: decodes pulse rows published on the pulses topic
//
// - rtl433: translates rtl_433's own Somfy-RTS decodes (rtl_433 -F mqtt)
//
// # Command line
//
// - gosomfy decode '{137}f0f0ff4cb34ab4cab4cb32ad334ab532b280'
//
// - gosomfy run somfy
package gosomfy
