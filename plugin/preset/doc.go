// Package preset manages factory and user presets for a parameter store.
//
// A [Manager] is owned by whoever constructs the processor and is passed in
// explicitly; there is no package-level preset state. User presets live in
// memory and can be exported to and imported from JSON so the host decides
// where they are stored.
package preset
