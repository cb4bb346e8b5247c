package gmapi

import (
	"fmt"

	"gmapi/layout"
	"gmapi/process"
)

// ResolveVersion probes each catalog signature in order and returns the
// first version whose bytes are present. Unreadable signature addresses
// count as a mismatch.
func ResolveVersion(mem process.Process, catalog layout.Catalog) (layout.Version, error) {
	for _, recipe := range catalog {
		sig := recipe.Signature
		if !sig.AOB.IsValid() {
			log.Debugln("Skipping", recipe.Version, "with an empty signature")
			continue
		}

		data, err := mem.ReadMemory(sig.Address, sig.AOB.Size())
		if err != nil {
			log.Debugln("Signature for", recipe.Version, "unreadable at", sig.Address.ToString(), err)
			continue
		}

		if sig.AOB.Match(data) {
			log.Infoln("Detected runtime version", recipe.Version)
			return recipe.Version, nil
		}
	}

	return layout.Unsupported, fmt.Errorf("no known signature matched: %w", ErrIncompatibleRuntime)
}
