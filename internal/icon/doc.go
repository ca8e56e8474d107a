// Package icon defines the icon data model shared by the offline cache, the
// catalog, and the library orchestrator.
//
// The types here are plain values:
//   - Datum: one icon's geometry (SVG path + viewBox) with optional metadata
//   - Payload: the unit persisted by the offline cache, a single Datum or a sequence
//   - Metadata: descriptive fields from the static metadata table
//   - Registry: ordered name -> Loader mapping used to resolve Definitions lazily
//
// Icon names are normalized to Unicode NFC on registration and lookup so that
// visually identical names always address the same entry.
package icon
