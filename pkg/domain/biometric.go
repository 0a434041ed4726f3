package domain

import dErrors "warden/pkg/domain-errors"

// PhotoType tags what a photo depicts.
type PhotoType string

const (
	PhotoMugshotFront    PhotoType = "mugshot_front"
	PhotoMugshotSide     PhotoType = "mugshot_side"
	PhotoMugshot3Quarter PhotoType = "mugshot_3quarter"
	PhotoDocument        PhotoType = "document"
	// PhotoProfile is used for officer records.
	PhotoProfile PhotoType = "profile"
)

var validPhotoTypes = map[PhotoType]bool{
	PhotoMugshotFront:    true,
	PhotoMugshotSide:     true,
	PhotoMugshot3Quarter: true,
	PhotoDocument:        true,
	PhotoProfile:         true,
}

func ParsePhotoType(s string) (PhotoType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "photo type cannot be empty")
	}
	t := PhotoType(s)
	if !validPhotoTypes[t] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid photo type %q", s)
	}
	return t, nil
}

func (t PhotoType) String() string { return string(t) }

// PhotoProvider determines which payload field a photo must carry:
// internal requires a storage reference, external_url requires a URL, upload
// requires a storage reference or an inline preview.
type PhotoProvider string

const (
	PhotoProviderInternal    PhotoProvider = "internal"
	PhotoProviderExternalURL PhotoProvider = "external_url"
	PhotoProviderUpload      PhotoProvider = "upload"
)

var validPhotoProviders = map[PhotoProvider]bool{
	PhotoProviderInternal:    true,
	PhotoProviderExternalURL: true,
	PhotoProviderUpload:      true,
}

func ParsePhotoProvider(s string) (PhotoProvider, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "photo provider cannot be empty")
	}
	p := PhotoProvider(s)
	if !validPhotoProviders[p] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid photo provider %q", s)
	}
	return p, nil
}

func (p PhotoProvider) String() string { return string(p) }

// FingerprintProvider determines which payload a fingerprint must carry:
// internal requires a storage reference, external requires template data or a
// provider reference.
type FingerprintProvider string

const (
	FingerprintProviderInternal FingerprintProvider = "internal"
	FingerprintProviderExternal FingerprintProvider = "external"
	FingerprintProviderUpload   FingerprintProvider = "upload"
)

var validFingerprintProviders = map[FingerprintProvider]bool{
	FingerprintProviderInternal: true,
	FingerprintProviderExternal: true,
	FingerprintProviderUpload:   true,
}

func ParseFingerprintProvider(s string) (FingerprintProvider, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "fingerprint provider cannot be empty")
	}
	p := FingerprintProvider(s)
	if !validFingerprintProviders[p] {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid fingerprint provider %q", s)
	}
	return p, nil
}

func (p FingerprintProvider) String() string { return string(p) }

// Finger names one of the ten capture slots. A (subject, finger) pair is the
// unit of fingerprint uniqueness.
type Finger string

const (
	RightThumb  Finger = "right_thumb"
	RightIndex  Finger = "right_index"
	RightMiddle Finger = "right_middle"
	RightRing   Finger = "right_ring"
	RightLittle Finger = "right_little"
	LeftThumb   Finger = "left_thumb"
	LeftIndex   Finger = "left_index"
	LeftMiddle  Finger = "left_middle"
	LeftRing    Finger = "left_ring"
	LeftLittle  Finger = "left_little"
)

var validFingers = map[Finger]bool{
	RightThumb:  true,
	RightIndex:  true,
	RightMiddle: true,
	RightRing:   true,
	RightLittle: true,
	LeftThumb:   true,
	LeftIndex:   true,
	LeftMiddle:  true,
	LeftRing:    true,
	LeftLittle:  true,
}

func ParseFinger(s string) (Finger, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "finger cannot be empty")
	}
	f := Finger(s)
	if !f.IsValid() {
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "invalid finger %q", s)
	}
	return f, nil
}

func (f Finger) IsValid() bool  { return validFingers[f] }
func (f Finger) String() string { return string(f) }

// Fingers lists all ten slots in a stable order.
func Fingers() []Finger {
	return []Finger{
		RightThumb, RightIndex, RightMiddle, RightRing, RightLittle,
		LeftThumb, LeftIndex, LeftMiddle, LeftRing, LeftLittle,
	}
}
