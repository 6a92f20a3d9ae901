package audio

import "testing"

func TestVolumeToDb(t *testing.T) {
	if db := volumeToDb(1); db != 0 {
		t.Errorf("volumeToDb(1) = %f, want 0", db)
	}
	if db := volumeToDb(0.5); db > -5.9 || db < -6.1 {
		t.Errorf("volumeToDb(0.5) = %f, want about -6", db)
	}
	if db := volumeToDb(0); db != -100 {
		t.Errorf("volumeToDb(0) = %f, want -100", db)
	}
	if volumeToDb(0.25) >= volumeToDb(0.5) {
		t.Error("volume curve must be monotonic")
	}
}

func TestVolumeSettersClamp(t *testing.T) {
	m := New()

	m.SetMasterVolume(1.5)
	if m.MasterVolume() != 1 {
		t.Errorf("master = %f, want clamped to 1", m.MasterVolume())
	}
	m.SetSoundVolume(-0.2)
	if m.SoundVolume() != 0 {
		t.Errorf("sound = %f, want clamped to 0", m.SoundVolume())
	}
	m.SetMusicVolume(0.3)
	if m.MusicVolume() != 0.3 {
		t.Errorf("music = %f, want 0.3", m.MusicVolume())
	}
}

func TestPlayRequiresInit(t *testing.T) {
	m := New()

	if err := m.PlaySound("jump"); err == nil {
		t.Error("PlaySound before Init should fail")
	}
	if err := m.PlayMusic("theme.wav", true); err == nil {
		t.Error("PlayMusic before Init should fail")
	}
	if m.IsInitialized() {
		t.Error("manager should not report initialized")
	}
}

func TestSoundBankLookup(t *testing.T) {
	m := New()

	if m.HasSound("pickup") {
		t.Error("empty bank should not contain pickup")
	}
	if err := m.LoadSound("pickup", "does-not-exist.wav"); err == nil {
		t.Error("loading a missing file should fail")
	}
	if m.HasSound("pickup") {
		t.Error("failed load must not register the sound")
	}
	if err := m.LoadSoundData("pickup", []byte("not a wav")); err == nil {
		t.Error("garbage data should fail to decode")
	}
}
