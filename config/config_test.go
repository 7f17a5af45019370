package config

import "testing"

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if cfg.Sim.MaxVelocity != 500.0 {
		t.Errorf("Sim.MaxVelocity = %v, want 500.0", cfg.Sim.MaxVelocity)
	}
	if cfg.Population.Size <= 0 {
		t.Errorf("Population.Size = %v, want > 0", cfg.Population.Size)
	}
	if cfg.Derived.NumInputs != 4 {
		t.Errorf("Derived.NumInputs = %v, want 4", cfg.Derived.NumInputs)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Error("Cfg() did not panic before Init()")
		}
	}()
	Cfg()
}

func TestMustInitLoadsDefaults(t *testing.T) {
	MustInit("")
	if Cfg().Sim.CarAcceleration != 300.0 {
		t.Errorf("Sim.CarAcceleration = %v, want 300.0", Cfg().Sim.CarAcceleration)
	}
}
