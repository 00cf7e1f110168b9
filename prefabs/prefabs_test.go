package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadTuningDefaults(t *testing.T) {
	tuning, err := LoadTuning()
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	if tuning.Physics.GravityY != -50 {
		t.Fatalf("expected gravity -50, got %v", tuning.Physics.GravityY)
	}
	if tuning.Physics.VelocityIterations != 6 || tuning.Physics.PositionIterations != 2 {
		t.Fatalf("expected 6/2 iterations, got %d/%d", tuning.Physics.VelocityIterations, tuning.Physics.PositionIterations)
	}
	if tuning.Weapon.BaseOffset != 0.8 || tuning.Weapon.SpreadDegrees != 2 {
		t.Fatalf("unexpected weapon tuning: %+v", tuning.Weapon)
	}
	if tuning.Player.GroundSensor.Height <= 0 {
		t.Fatalf("ground sensor height missing")
	}
}

func TestLoadTuningEnvOverrides(t *testing.T) {
	t.Setenv("CRATE_PLAYER_JUMP_SPEED", "21")
	t.Setenv("CRATE_PHYSICS_GRAVITY_Y", "-30")
	t.Setenv("CRATE_PLAYER_SENSOR_WIDTH", "0.5")

	tuning, err := LoadTuning()
	if err != nil {
		t.Fatalf("load tuning: %v", err)
	}
	if tuning.Player.JumpSpeed != 21 {
		t.Fatalf("expected jump speed 21, got %v", tuning.Player.JumpSpeed)
	}
	if tuning.Physics.GravityY != -30 {
		t.Fatalf("expected gravity -30, got %v", tuning.Physics.GravityY)
	}
	if tuning.Player.GroundSensor.Width != 0.5 {
		t.Fatalf("expected sensor width 0.5, got %v", tuning.Player.GroundSensor.Width)
	}
	if tuning.Player.MoveSpeed != 5 {
		t.Fatalf("unset variables must keep file values, got move speed %v", tuning.Player.MoveSpeed)
	}
}

func TestLoadTuningBadEnv(t *testing.T) {
	t.Setenv("CRATE_WEAPON_COOLDOWN_FRAMES", "soon")
	if _, err := LoadTuning(); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestDiskOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })

	if err := os.WriteFile(filepath.Join(dir, "weapon.yaml"), []byte("speed: 9\nbase_offset: 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	spec, err := LoadSpec[WeaponSpec]("prefabs/weapon.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if spec.Speed != 9 || spec.BaseOffset != 1 {
		t.Fatalf("expected disk copy, got %+v", spec)
	}
	if _, ok := ModTime("weapon.yaml"); !ok {
		t.Fatalf("expected a mod time for the disk copy")
	}
	if _, ok := ModTime("player.yaml"); ok {
		t.Fatalf("embedded-only prefab must not report a mod time")
	}
}

func TestLoadScript(t *testing.T) {
	for _, name := range []string{"impact.tengo", "scripts/impact.tengo", "prefabs/scripts/impact.tengo"} {
		src, err := LoadScript(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(src) == 0 {
			t.Fatalf("%s: empty script", name)
		}
	}
}

func TestWatcherReportsEdits(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcherAt(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "player.yaml"), []byte("jump_speed: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case name := <-w.Events:
		if name != "player.yaml" {
			t.Fatalf("expected player.yaml, got %q", name)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event for player.yaml")
	}
}

func TestWatcherMissingDir(t *testing.T) {
	if _, err := NewWatcherAt(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}
