package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lstarinfer/lstar"
	"github.com/lstarinfer/lstar/automaton"
	"github.com/lstarinfer/lstar/eqtest"
	"github.com/lstarinfer/lstar/knowledge"
	"github.com/lstarinfer/lstar/teacher/tcp"
	"github.com/lstarinfer/lstar/word"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type learnOptions struct {
	fake               bool
	addr               string
	timeout            time.Duration
	alphabet           []string
	cacheFile          string
	oracleName         string
	maxStates          int
	bdistDepth         int
	randomSteps        int
	restartProbability float64
	dotOut             string
}

func newLearnCommand(logger *zerolog.Logger) *cobra.Command {
	opts := &learnOptions{}

	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Run the learner to completion and print the hypothesis",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLearn(*logger, opts)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&opts.fake, "fake", false, "learn the built-in demonstration target instead of a live TCP target")
	flags.StringVar(&opts.addr, "addr", "127.0.0.1:4242", "address of the live TCP target (ignored with --fake)")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-letter network timeout")
	flags.StringSliceVar(&opts.alphabet, "alphabet", []string{"a", "b", "c"}, "comma-separated input alphabet (single-symbol letters)")
	flags.StringVar(&opts.cacheFile, "cache-file", "", "persist the knowledge tree to this path")
	flags.StringVar(&opts.oracleName, "oracle", "wp", "equivalence oracle: wp, bdist, randomwalk, or composite")
	flags.IntVar(&opts.maxStates, "max-states", 10, "assumed upper bound on the target's state count (wp-method)")
	flags.IntVar(&opts.bdistDepth, "bdist-depth", 3, "suffix depth for the bounded-distinguisher oracle")
	flags.IntVar(&opts.randomSteps, "random-steps", 2000, "step budget for the random-walk oracle")
	flags.Float64Var(&opts.restartProbability, "restart-probability", 0.1, "restart probability for the random-walk oracle")
	flags.StringVar(&opts.dotOut, "dot-out", "", "write the learned hypothesis as a DOT graph to this path")

	return cmd
}

func runLearn(logger zerolog.Logger, opts *learnOptions) error {
	var alphabet []word.Letter[string]
	if opts.fake {
		alphabet = demoAlphabet()
	} else {
		alphabet = make([]word.Letter[string], len(opts.alphabet))
		for i, s := range opts.alphabet {
			alphabet[i] = word.NewLetter(s)
		}
	}

	teacherImpl, err := buildTeacher(opts, logger)
	if err != nil {
		return err
	}

	treeOpts := []knowledge.Option[string, string]{knowledge.WithLogger[string, string](logger)}
	if opts.cacheFile != "" {
		treeOpts = append(treeOpts, knowledge.WithCacheFile[string, string](opts.cacheFile, 100))
	}
	tree := knowledge.New[string, string](treeOpts...)
	base := knowledge.NewBase[string, string](tree, teacherImpl, knowledge.WithBaseLogger[string, string](logger))

	oracle, err := buildOracle(opts, base, alphabet, logger)
	if err != nil {
		return err
	}

	learner := lstar.New[string, string](alphabet, base, oracle, lstar.WithLogger[string, string](logger))
	hyp, err := learner.Run()
	if err != nil {
		return fmt.Errorf("lstarctl: learning failed: %w", err)
	}

	if err := base.Flush(); err != nil {
		logger.Warn().Err(err).Msg("lstarctl: final cache flush failed")
	}

	states, _ := hyp.ReachableStates()
	stats := base.Stats()
	logger.Info().
		Int("states", len(states)).
		Int("queries", stats.Queries).
		Int("teacher_invocations", stats.SubmittedQueries).
		Float64("cache_hit_rate", stats.HitRate()).
		Msg("lstarctl: learning complete")

	if opts.dotOut != "" {
		return writeDOT(hyp, opts.dotOut)
	}
	return nil
}

func buildTeacher(opts *learnOptions, logger zerolog.Logger) (knowledge.Teacher[string, string], error) {
	if opts.fake {
		return knowledge.NewFakeTeacher[string, string](demoTarget()), nil
	}
	return tcp.NewStringNetworkTeacher(opts.addr, opts.timeout, tcp.WithLogger[string, string](logger)), nil
}

func buildOracle(opts *learnOptions, base *knowledge.Base[string, string], alphabet []word.Letter[string], logger zerolog.Logger) (eqtest.Oracle[string, string], error) {
	wp := eqtest.NewWpMethod[string, string](base, alphabet, opts.maxStates, eqtest.WithWpLogger[string, string](logger))
	bdist := eqtest.NewBDist[string, string](base, alphabet, opts.bdistDepth, eqtest.WithBDistLogger[string, string](logger))
	rw := eqtest.NewRandomWalk[string, string](base, opts.randomSteps, opts.restartProbability, eqtest.WithRandomWalkLogger[string, string](logger))

	switch strings.ToLower(opts.oracleName) {
	case "wp":
		return wp, nil
	case "bdist":
		return bdist, nil
	case "randomwalk":
		return rw, nil
	case "composite":
		return eqtest.NewComposite[string, string](wp, bdist, rw), nil
	default:
		return nil, fmt.Errorf("lstarctl: unknown oracle %q (want wp, bdist, randomwalk, or composite)", opts.oracleName)
	}
}

func writeDOT(hyp *automaton.Machine[string, string], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("lstarctl: create dot output: %w", err)
	}
	defer f.Close()
	return automaton.WriteDOT(f, hyp)
}
