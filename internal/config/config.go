// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Character CharacterConfig `yaml:"character"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	Fullscreen bool    `yaml:"fullscreen"`
	VSync      bool    `yaml:"vsync"`
	FOV        float32 `yaml:"fov"` // vertical field of view in degrees
}

// TerrainConfig holds terrain source and tiling settings. If HeightmapPath
// is empty, the terrain is generated procedurally from Seed.
type TerrainConfig struct {
	HeightmapPath string  `yaml:"heightmap_path"`
	Seed          int64   `yaml:"seed"`
	Width         int     `yaml:"width"` // samples per row when generating
	Rows          int     `yaml:"rows"`
	Scale         float32 `yaml:"scale"` // triangle edge length in world units
	OffsetX       float32 `yaml:"offset_x"`
	OffsetZ       float32 `yaml:"offset_z"`
	MinHeight     float32 `yaml:"min_height"`
	MaxHeight     float32 `yaml:"max_height"`

	// TileSize is quads per tile side; must be a power of two.
	TileSize int `yaml:"tile_size"`
	// LODDistanceScale widens (>1) or tightens (<1) the distance rings
	// that drive per-tile detail selection.
	LODDistanceScale float32 `yaml:"lod_distance_scale"`
}

// CharacterConfig holds movement constants. Speeds are in units/frame and
// accelerations in units/frame^2.
type CharacterConfig struct {
	MaxSpeed float32 `yaml:"max_speed"`
	Friction float32 `yaml:"friction"`
	MaxJump  float32 `yaml:"max_jump"`
	Gravity  float32 `yaml:"gravity"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FOV:        60,
		},
		Terrain: TerrainConfig{
			Seed:             1,
			Width:            1025,
			Rows:             1025,
			Scale:            1,
			MinHeight:        0,
			MaxHeight:        40,
			TileSize:         256,
			LODDistanceScale: 1,
		},
		Character: CharacterConfig{
			MaxSpeed: 0.2,
			Friction: 0.05,
			MaxJump:  0.2,
			Gravity:  0.02,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
