package inventory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmware/govmomi/vim25/mo"
	"github.com/vmware/govmomi/vim25/types"
)

func folderRef(id string) *types.ManagedObjectReference {
	return &types.ManagedObjectReference{Type: "Folder", Value: id}
}

func TestResolveFolderPath(t *testing.T) {
	ep := &fakeEndpoint{
		folders: map[string]mo.Folder{
			"group-v3":  folder("group-v3", "vm", "datacenter-2"),
			"group-v10": folder("group-v10", "Prod", "group-v3"),
			"group-v11": folder("group-v11", "Web", "group-v10"),
		},
	}

	tests := []struct {
		name   string
		parent *types.ManagedObjectReference
		want   string
	}{
		{
			name:   "VM without a parent sits at the root",
			parent: nil,
			want:   `\`,
		},
		{
			name:   "VM directly under the vm root folder",
			parent: folderRef("group-v3"),
			want:   `\`,
		},
		{
			name:   "One level deep",
			parent: folderRef("group-v10"),
			want:   `\Prod`,
		},
		{
			name:   "Nested path is rendered root-most first",
			parent: folderRef("group-v11"),
			want:   `\Prod\Web`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveFolderPath(context.Background(), ep, tt.parent)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveFolderPathBrokenChain(t *testing.T) {
	// An orphan folder whose chain never reaches the vm root.
	ep := &fakeEndpoint{
		folders: map[string]mo.Folder{
			"group-v20": folder("group-v20", "Orphan", ""),
		},
	}

	_, err := ResolveFolderPath(context.Background(), ep, folderRef("group-v20"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Orphan")
}

func TestResolveFolderPathCycle(t *testing.T) {
	ep := &fakeEndpoint{
		folders: map[string]mo.Folder{
			"group-v30": folder("group-v30", "A", "group-v31"),
			"group-v31": folder("group-v31", "B", "group-v30"),
		},
	}

	_, err := ResolveFolderPath(context.Background(), ep, folderRef("group-v30"))
	require.Error(t, err)
}

func TestResolveFolderPathDeepChainWithinBound(t *testing.T) {
	folders := map[string]mo.Folder{
		"group-v0": folder("group-v0", "vm", "datacenter-2"),
	}
	want := ""
	for i := 1; i <= 40; i++ {
		id := fmt.Sprintf("group-v%d", i)
		parent := fmt.Sprintf("group-v%d", i-1)
		name := fmt.Sprintf("L%d", i)
		folders[id] = folder(id, name, parent)
		want += `\` + name
	}
	ep := &fakeEndpoint{folders: folders}

	got, err := ResolveFolderPath(context.Background(), ep, folderRef("group-v40"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestResolveFolderPathLookupFailure(t *testing.T) {
	ep := &fakeEndpoint{
		folders: map[string]mo.Folder{},
	}

	_, err := ResolveFolderPath(context.Background(), ep, folderRef("group-v99"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "group-v99")
}
