package audio

import (
	"math"
	"testing"
)

func TestImpactVolume(t *testing.T) {
	if v := ImpactVolume(MinImpactSpeed / 2); v != 0 {
		t.Errorf("Expected slow contacts to be silent, got %v", v)
	}
	if v := ImpactVolume(MaxImpactSpeed * 3); v != 1 {
		t.Errorf("Expected fast contacts at full volume, got %v", v)
	}
	if ImpactVolume(2) >= ImpactVolume(5) {
		t.Error("Expected volume to grow with speed")
	}
}

func TestImpactPitchRisesWithSpeed(t *testing.T) {
	if ImpactPitch(1) >= ImpactPitch(8) {
		t.Errorf("Expected higher pitch for harder hits, got %v and %v", ImpactPitch(1), ImpactPitch(8))
	}
}

func TestDecayingToneEnds(t *testing.T) {
	tone := newDecayingTone(440, impactDuration, sampleRate)
	buf := make([][2]float64, 512)

	total := 0
	peak := 0.0
	for {
		n, ok := tone.Stream(buf)
		for _, s := range buf[:n] {
			peak = math.Max(peak, math.Abs(s[0]))
		}
		total += n
		if !ok {
			break
		}
	}

	if want := sampleRate.N(impactDuration); total != want {
		t.Errorf("Expected %d samples, got %d", want, total)
	}
	if peak == 0 || peak > 0.5 {
		t.Errorf("Expected peak in (0, 0.5], got %v", peak)
	}
}

func TestPlayImpactWithoutSpeaker(t *testing.T) {
	m := NewManager()
	m.PlayImpact(5, 0)
	if m.mixer.Len() != 0 {
		t.Errorf("Expected nothing queued before Initialize, got %d", m.mixer.Len())
	}
	m.SetEnabled(false)
	if m.Enabled() {
		t.Error("Expected manager to be muted")
	}
}
