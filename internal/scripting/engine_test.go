package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func TestMissingScriptDir(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	if err != nil {
		t.Fatalf("missing dir must not be an error: %v", err)
	}
	defer e.Close()

	if got := e.Talk("hermit", "crown"); got != "" {
		t.Errorf("Talk with no scripts = %q, want empty fallback", got)
	}
	if got := e.Hint("shadow_domain", "warrior", 3); got != "" {
		t.Errorf("Hint with no scripts = %q, want empty fallback", got)
	}
}

func TestScriptOverrides(t *testing.T) {
	dir := t.TempDir()
	script := `
function npc_talk(npc_id, topic)
  if npc_id == "hermit" and topic == "crown" then
    return "The crown is a weight."
  end
  return ""
end

function progress_hint(area, selected_path, achievements)
  if selected_path == "" then
    return "Choose a path."
  end
  return ""
end
`
	if err := os.WriteFile(filepath.Join(dir, "dialogue.lua"), []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	e, err := NewEngine(dir, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	if got := e.Talk("hermit", "crown"); got != "The crown is a weight." {
		t.Errorf("Talk = %q", got)
	}
	if got := e.Talk("hermit", "weather"); got != "" {
		t.Errorf("declined topic = %q, want empty", got)
	}
	if got := e.Hint("anywhere", "", 0); got != "Choose a path." {
		t.Errorf("Hint = %q", got)
	}
	if got := e.Hint("anywhere", "warrior", 0); got != "" {
		t.Errorf("declined hint = %q, want empty", got)
	}
}

func TestBrokenScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewEngine(dir, zap.NewNop()); err == nil {
		t.Error("a broken script should fail engine construction")
	}
}
