package inventory

import (
	"context"
	"fmt"

	"github.com/vmware/govmomi/vim25/types"
)

const (
	// vmFolderSentinel is the well-known name of the datacenter's VM root
	// folder. Ascent stops there and the sentinel itself is never part of
	// the rendered path.
	vmFolderSentinel = "vm"

	// maxFolderDepth bounds the parent-chain ascent so a cycle or a chain
	// that never reaches the sentinel fails instead of spinning.
	maxFolderDepth = 64
)

// ResolveFolderPath renders the folder path of a VM given its immediate
// parent reference, e.g. `\Prod\Web` for a VM under vm/Prod/Web. A VM
// directly under the datacenter's VM root yields `\`. Both VM shapes the
// callers hold (live property views and friendly finder objects) expose the
// parent reference, so that reference is the whole input contract.
func ResolveFolderPath(ctx context.Context, ep Endpoint, parent *types.ManagedObjectReference) (string, error) {
	if parent == nil {
		return `\`, nil
	}

	folder, err := ep.Folder(ctx, *parent)
	if err != nil {
		return "", fmt.Errorf("failed to fetch parent folder %s: %w", parent.Value, err)
	}
	if folder.Name == vmFolderSentinel {
		return `\`, nil
	}

	path := folder.Name
	for depth := 0; ; depth++ {
		if depth >= maxFolderDepth {
			return "", fmt.Errorf("folder chain exceeds %d levels without reaching the %q root", maxFolderDepth, vmFolderSentinel)
		}
		if folder.Parent == nil {
			return "", fmt.Errorf("folder %q has no parent before reaching the %q root", folder.Name, vmFolderSentinel)
		}

		up, err := ep.Folder(ctx, *folder.Parent)
		if err != nil {
			return "", fmt.Errorf("failed to fetch folder %s: %w", folder.Parent.Value, err)
		}
		if up.Name == vmFolderSentinel {
			break
		}
		path = up.Name + `\` + path
		folder = up
	}

	return `\` + path, nil
}
