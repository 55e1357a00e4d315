package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/arvidnor/satcore/internal/parsers"
	"github.com/arvidnor/satcore/internal/sat"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzipped = flag.Bool(
	"gzip",
	false,
	"treat the instance file as gzip-compressed",
)

var flagNoProbe = flag.Bool(
	"noprobe",
	false,
	"skip the failed-literal probing pass before search",
)

var flagProbeOnly = flag.Bool(
	"probeonly",
	false,
	"run the probing pass and report its findings, then exit without searching",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		gzipped:      *flagGzipped,
		noProbe:      *flagNoProbe,
		probeOnly:    *flagProbeOnly,
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
	}, nil
}

type config struct {
	instanceFile string
	gzipped      bool
	noProbe      bool
	probeOnly    bool
	memProfile   bool
	cpuProfile   bool
}

func run(cfg *config) error {
	s := sat.NewDefaultSolver()
	if err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, s); err != nil {
		return fmt.Errorf("could not parse instance: %s", err)
	}

	fmt.Printf("c variables:  %d\n", s.NumVariables())
	fmt.Printf("c clauses:    %d\n", s.NumConstraints())

	t := time.Now()

	if !cfg.noProbe {
		stats := s.Probe()
		fmt.Printf("c probed:     %d (failed %d, both-same %d, bin-xor %d, xor-clause-equiv %d, useless-bin removed %d, hyper-bin deferred %d)\n",
			stats.Tried, stats.Failed, stats.BothSame, stats.BinXorFound, stats.XorClauseEquiv, stats.UselessBinRem, stats.HyperBinSkipped)
		if cfg.probeOnly {
			elapsed := time.Since(t)
			fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
			if stats.UNSAT {
				fmt.Println("c status:     false")
			} else {
				fmt.Println("c status:     unknown")
			}
			return nil
		}
	}

	status := s.Solve()
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c conflicts:  %d (%.2f /sec)\n", s.TotalConflicts, float64(s.TotalConflicts)/elapsed.Seconds())
	fmt.Printf("c learnts:    %d\n", s.NumLearnts())
	fmt.Printf("c status:     %s\n", status.String())

	return nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if err := run(cfg); err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
		return
	}
}
