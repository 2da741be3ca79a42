package doc

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/signadot/tony-include/format"
	"github.com/signadot/tony-include/parse"
)

// Patch applies an RFC 6902 JSON patch to the current tree and installs the
// result as a new snapshot. Elements at positions that survive the patch can
// be resolved again in the new snapshot. Comments and tags do not survive a
// patch, and object fields come back in sorted order.
func (d *Document) Patch(patch []byte) error {
	root, err := d.Root()
	if err != nil {
		return err
	}
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return fmt.Errorf("decoding patch for %s: %w", d.id, err)
	}
	cur, err := json.Marshal(root.n.ToAny())
	if err != nil {
		return fmt.Errorf("encoding %s: %w", d.id, err)
	}
	next, err := p.Apply(cur)
	if err != nil {
		return fmt.Errorf("patching %s: %w", d.id, err)
	}
	y, err := parse.Parse(next, parse.ParseFormat(format.JSONFormat))
	if err != nil {
		return fmt.Errorf("reparsing patched %s: %w", d.id, err)
	}
	return d.Replace(y)
}
