package models

// Settings holds persistent user preferences
type Settings struct {
	Timezone string `json:"timezone"`
	SeedDemo bool   `json:"seed_demo"`
}
