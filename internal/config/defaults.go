package config

const (
	// DefaultVenvDir is the project-local virtual environment directory created by uv
	DefaultVenvDir = ".venv"
	// DefaultSmokeMatrixSize is the edge length of the square matrix multiplied on the GPU
	DefaultSmokeMatrixSize = 1000
	// DefaultProbeTimeoutSeconds bounds every external process; importing torch is slow on cold caches
	DefaultProbeTimeoutSeconds = 120
)

// DefaultConfig returns a configuration matching the stock devcontainer
func DefaultConfig() Config {
	return Config{
		Python: PythonConfig{
			VenvDir: DefaultVenvDir,
		},
		GPU: GPUConfig{
			SmokeMatrixSize: DefaultSmokeMatrixSize,
		},
		Geo: GeoConfig{
			ConfigTool:    "gdal-config",
			BindingModule: "osgeo.gdal",
			Optional:      []string{"rasterio", "geopandas", "shapely"},
		},
		Packages: PackagesConfig{
			Required: []string{
				"torch",
				"torchvision",
				"numpy",
				"scipy",
				"pandas",
				"polars",
				"matplotlib",
				"seaborn",
				"tqdm",
				"jupyter",
			},
			Constraints: map[string]string{},
		},
		DevTools: DevToolsConfig{
			Tools: []string{"pytest", "ruff", "black"},
		},
		Mounts: MountsConfig{
			Paths: []string{"/run/media", "/run/data_raid5"},
		},
		ProbeTimeoutSeconds: DefaultProbeTimeoutSeconds,
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}
