package segment

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var (
	// ImageExts are the frame formats the video assembler accepts.
	ImageExts = []string{".jpg", ".jpeg", ".png", ".bmp"}
	// AudioExts are the narration formats the video assembler accepts.
	AudioExts = []string{".mp3", ".wav", ".ogg", ".m4a"}
)

// ErrNoPairs is returned when no image and audio file share a stem.
var ErrNoPairs = errors.New("segment: no matching image and audio files")

// Pair joins the frame and narration of one segment.
type Pair struct {
	Stem  string `yaml:"stem"`
	Image string `yaml:"image"`
	Audio string `yaml:"audio"`
}

// Manifest is the document handed to the external video assembler.
type Manifest struct {
	Segments []Pair `yaml:"segments"`
}

// MatchPairs joins images and audio by case-insensitive stem and returns the
// pairs in natural stem order. Files without a partner are ignored.
func MatchPairs(imageDir, audioDir string) ([]Pair, error) {
	images, err := ListStems(imageDir, ImageExts...)
	if err != nil {
		return nil, err
	}
	audio, err := ListStems(audioDir, AudioExts...)
	if err != nil {
		return nil, err
	}

	var pairs []Pair
	for stem, imagePath := range images {
		audioPath, ok := audio[stem]
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{Stem: stem, Image: imagePath, Audio: audioPath})
	}
	if len(pairs) == 0 {
		return nil, ErrNoPairs
	}

	sortPairs(pairs)
	return pairs, nil
}

func sortPairs(pairs []Pair) {
	stems := make([]string, len(pairs))
	byStem := make(map[string]Pair, len(pairs))
	for i, pair := range pairs {
		stems[i] = pair.Stem
		byStem[pair.Stem] = pair
	}
	SortNatural(stems)
	for i, stem := range stems {
		pairs[i] = byStem[stem]
	}
}

// WriteManifest stores pairs as YAML at path.
func WriteManifest(path string, pairs []Pair) error {
	data, err := yaml.Marshal(Manifest{Segments: pairs})
	if err != nil {
		return fmt.Errorf("segment: encode manifest: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("segment: create %q: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("segment: write manifest %q: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	var manifest Manifest
	data, err := os.ReadFile(path)
	if err != nil {
		return manifest, fmt.Errorf("segment: read manifest %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("segment: parse manifest %q: %w", path, err)
	}
	return manifest, nil
}
