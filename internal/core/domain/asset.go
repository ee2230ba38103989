package domain

import (
	"path/filepath"
	"strings"
)

// AssetKind classifies an input file by the transform family that handles it.
type AssetKind uint8

const (
	// KindUnsupported marks files that are never scheduled.
	KindUnsupported AssetKind = iota
	// KindImage marks textures and sprites.
	KindImage
	// KindModel marks meshes and scenes.
	KindModel
	// KindAudio marks sound effects and music.
	KindAudio
)

var kindNames = [...]string{
	KindUnsupported: "unsupported",
	KindImage:       "image",
	KindModel:       "model",
	KindAudio:       "audio",
}

var extensionKinds = map[string]AssetKind{
	".png":   KindImage,
	".jpg":   KindImage,
	".jpeg":  KindImage,
	".webp":  KindImage,
	".bmp":   KindImage,
	".gif":   KindImage,
	".tga":   KindImage,
	".ktx2":  KindImage,
	".basis": KindImage,
	".gltf":  KindModel,
	".glb":   KindModel,
	".obj":   KindModel,
	".fbx":   KindModel,
	".wav":   KindAudio,
	".mp3":   KindAudio,
	".ogg":   KindAudio,
	".flac":  KindAudio,
	".aac":   KindAudio,
	".m4a":   KindAudio,
}

// String returns the lower-case kind name used in config files and logs.
func (k AssetKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindUnsupported]
}

// Supported reports whether files of this kind are scheduled at all.
func (k AssetKind) Supported() bool {
	return k != KindUnsupported && int(k) < len(kindNames)
}

// ParseAssetKind maps a kind name back to its AssetKind.
func ParseAssetKind(name string) (AssetKind, bool) {
	for i, n := range kindNames {
		if i != int(KindUnsupported) && n == strings.ToLower(name) {
			return AssetKind(i), true
		}
	}
	return KindUnsupported, false
}

// ClassifyPath returns the asset kind for a path based on its extension.
// Matching is case-insensitive.
func ClassifyPath(path string) AssetKind {
	ext := strings.ToLower(filepath.Ext(path))
	if kind, ok := extensionKinds[ext]; ok {
		return kind
	}
	return KindUnsupported
}
