package config

const (
	defaultProjectsDir  = "~/cryoprocess/projects"
	defaultScratchDir   = "/scratch"
	defaultLogDir       = "~/.local/share/cryoprocess/logs"
	defaultMPILauncher  = "mpirun"
	defaultMPIProcsFlag = "-n"
	defaultCtfFind      = "ctffind"
	defaultGctf         = "gctf"
	defaultMotionCor2   = "MotionCor2"
	defaultDynaMight    = "relion_python_dynamight"
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectsDir: defaultProjectsDir,
			ScratchDir:  defaultScratchDir,
			LogDir:      defaultLogDir,
		},
		Slurm: Slurm{
			MPILauncher:  defaultMPILauncher,
			MPIProcsFlag: defaultMPIProcsFlag,
		},
		Tools: Tools{
			CtfFind:    defaultCtfFind,
			Gctf:       defaultGctf,
			MotionCor2: defaultMotionCor2,
			DynaMight:  defaultDynaMight,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
