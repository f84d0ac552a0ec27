package model

// StorageKey fixed key in the key-value namespace
type StorageKey string

const (
	KeyRunwareAPIKey     StorageKey = "runwareApiKey"
	KeyGeminiAPIKey      StorageKey = "geminiApiKey"
	KeySavedMoodboards   StorageKey = "savedMoodboards"
	KeySavedDesignImages StorageKey = "savedDesignImages"
	KeyGalleryImages     StorageKey = "galleryImages"
	KeyUser              StorageKey = "user"
	KeyBudgetPlans       StorageKey = "budgetPlans"
)

// AllKeys every key the application writes, in warm-up order
var AllKeys = []StorageKey{
	KeyRunwareAPIKey,
	KeyGeminiAPIKey,
	KeySavedMoodboards,
	KeySavedDesignImages,
	KeyGalleryImages,
	KeyUser,
	KeyBudgetPlans,
}

func (k StorageKey) String() string {
	return string(k)
}

// KeyNames AllKeys as plain strings
func KeyNames() []string {
	out := make([]string, len(AllKeys))
	for i, k := range AllKeys {
		out[i] = k.String()
	}
	return out
}

// GeneratedImage result of an image generation call, stored in galleries
type GeneratedImage struct {
	ImageURL       string `json:"imageURL"`
	PositivePrompt string `json:"positivePrompt,omitempty"`
	Seed           int64  `json:"seed"`
	TaskUUID       string `json:"taskUUID,omitempty"`
	NSFWContent    bool   `json:"NSFWContent,omitempty"`
}
