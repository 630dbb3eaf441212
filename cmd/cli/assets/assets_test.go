package assets

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func useTempDatabase(t *testing.T) {
	t.Helper()
	t.Setenv("ASSETDB_DATA_DIR", t.TempDir())
}

func TestCreateAndListAssets(t *testing.T) {
	useTempDatabase(t)

	create := createAssetCmd()
	_ = create.Flags().Set("name", "MacBook Pro")
	_ = create.Flags().Set("tag", "LT-0001")
	_ = create.Flags().Set("category", "Laptops")

	out := captureOutput(t, func() {
		if err := create.RunE(create, nil); err != nil {
			t.Errorf("create: %v", err)
		}
	})
	if !strings.Contains(out, `"assetTag": "LT-0001"`) {
		t.Fatalf("expected created asset JSON, got: %s", out)
	}

	list := listAssetsCmd()
	out = captureOutput(t, func() {
		if err := list.RunE(list, nil); err != nil {
			t.Errorf("list: %v", err)
		}
	})
	if !strings.Contains(out, "MacBook Pro") || !strings.Contains(out, "LT-0001") {
		t.Fatalf("expected asset in table output, got: %s", out)
	}
}

func TestCreateAsset_ValidationError(t *testing.T) {
	useTempDatabase(t)

	create := createAssetCmd()
	_ = create.Flags().Set("tag", "LT-0002")
	_ = create.Flags().Set("category", "Laptops")

	err := create.RunE(create, nil)
	if err == nil || !strings.Contains(err.Error(), "name is required") {
		t.Fatalf("expected validation error, got: %v", err)
	}
}

func TestTransferAsset(t *testing.T) {
	useTempDatabase(t)

	create := createAssetCmd()
	_ = create.Flags().Set("name", "ThinkPad")
	_ = create.Flags().Set("tag", "LT-0003")
	_ = create.Flags().Set("category", "Laptops")
	captureOutput(t, func() {
		if err := create.RunE(create, nil); err != nil {
			t.Errorf("create: %v", err)
		}
	})

	transfer := transferAssetCmd()
	_ = transfer.Flags().Set("from", "alice")
	_ = transfer.Flags().Set("to", "bob")

	out := captureOutput(t, func() {
		if err := transfer.RunE(transfer, []string{"1"}); err != nil {
			t.Errorf("transfer: %v", err)
		}
	})
	if !strings.Contains(out, "transferred to bob") {
		t.Fatalf("unexpected transfer output: %s", out)
	}

	list := listAssetsCmd()
	out = captureOutput(t, func() {
		if err := list.RunE(list, nil); err != nil {
			t.Errorf("list: %v", err)
		}
	})
	if !strings.Contains(out, "bob") {
		t.Fatalf("expected new holder in listing, got: %s", out)
	}
}
