package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/reachgraph/reachdag/algebra"
	"github.com/reachgraph/reachdag/core"
	"github.com/reachgraph/reachdag/diamond"
	"github.com/reachgraph/reachdag/ingest"
	"github.com/reachgraph/reachdag/propagate"
	"github.com/reachgraph/reachdag/topology"
)

func runPropagate(_ *cobra.Command, _ []string) error {
	configureLogging()

	networkFile, err := os.Open(cfg.GetString("network"))
	if err != nil {
		return fmt.Errorf("opening network file: %w", err)
	}
	defer networkFile.Close()

	selectedAlgebra := cfg.GetString("algebra")
	probPath := cfg.GetString("probabilities")

	switch selectedAlgebra {
	case "point":
		if probPath != "" {
			return runParametric(networkFile, probPath)
		}

		return runSingleAlgebra(networkFile)
	case "interval", "slice":
		if probPath == "" {
			return errors.New("--probabilities is required for the interval and slice algebras")
		}

		return runParametric(networkFile, probPath)
	default:
		return fmt.Errorf("unknown algebra %q (valid: point, interval, slice)", selectedAlgebra)
	}
}

func runSingleAlgebra(networkFile *os.File) error {
	edges, priors, edgeProbs, err := ingest.LoadSingleAlgebra(networkFile)
	if err != nil {
		return err
	}

	alg := algebra.PointAlgebra{}
	topo, catalog, err := buildTopologyAndCatalog(edges, alg, priors)
	if err != nil {
		return err
	}

	belief, err := propagate.Run(topo, catalog, alg, priors, edgeProbs)
	if err != nil {
		return err
	}

	return writeBelief(belief)
}

func runParametric(networkFile *os.File, probPath string) error {
	probFile, err := os.Open(probPath)
	if err != nil {
		return fmt.Errorf("opening probabilities file: %w", err)
	}
	defer probFile.Close()

	edges, nodeSpecs, edgeSpecs, err := ingest.LoadParametric(networkFile, probFile)
	if err != nil {
		return err
	}

	switch cfg.GetString("algebra") {
	case "point":
		priors, edgeProbs, err := projectPSpecsToPoint(nodeSpecs, edgeSpecs)
		if err != nil {
			return err
		}
		alg := algebra.PointAlgebra{}
		topo, catalog, err := buildTopologyAndCatalog(edges, alg, priors)
		if err != nil {
			return err
		}
		belief, err := propagate.Run(topo, catalog, alg, priors, edgeProbs)
		if err != nil {
			return err
		}

		return writeBelief(belief)

	case "interval":
		return runInterval(edges, nodeSpecs, edgeSpecs)

	case "slice":
		return runSlice(edges, nodeSpecs, edgeSpecs)

	default:
		return fmt.Errorf("unknown algebra %q (valid: point, interval, slice)", cfg.GetString("algebra"))
	}
}

func runInterval(edges core.EdgeList, nodeSpecs map[core.NodeID]ingest.PSpec, edgeSpecs map[core.Edge]ingest.PSpec) error {
	priors, edgeProbs, err := projectPSpecsToInterval(nodeSpecs, edgeSpecs)
	if err != nil {
		return err
	}

	alg := algebra.IntervalAlgebra{}
	topo, catalog, err := buildTopologyAndCatalog(edges, alg, priors)
	if err != nil {
		return err
	}

	belief, err := propagate.Run(topo, catalog, alg, priors, edgeProbs, conditioningOptions()...)
	if err != nil {
		return err
	}

	return writeBelief(belief)
}

// runSlice propagates under the slice (p-box) algebra. When a diamond's
// conditioning set exceeds the configured cap, this logs a structured
// warning; the slice propagation still runs to completion, and its result
// is then discarded in favour of a rerun of the whole propagation on the
// same topology under the cheaper interval algebra, bracketing the slice
// atoms' support.
func runSlice(edges core.EdgeList, nodeSpecs map[core.NodeID]ingest.PSpec, edgeSpecs map[core.Edge]ingest.PSpec) error {
	priors, edgeProbs, err := projectPSpecsToSlice(nodeSpecs, edgeSpecs)
	if err != nil {
		return err
	}

	alg := algebra.SliceAlgebra{
		Tolerance:  cfg.GetFloat64("slice.tolerance"),
		PruneBelow: cfg.GetFloat64("slice.prune-below"),
	}
	topo, catalog, err := buildTopologyAndCatalog(edges, alg, priors)
	if err != nil {
		return err
	}

	var capped bool
	opts := append(conditioningOptions(), propagate.WithConditioningCapHook(func(join core.NodeID, size int) {
		capped = true
		log.WithFields(map[string]interface{}{
			"join":              uint64(join),
			"conditioning_size": size,
			"cap":               cfg.GetInt("conditioning.max-set"),
		}).Warn("slice conditioning set exceeds cap, falling back to interval algebra")
	}))

	belief, err := propagate.Run(topo, catalog, alg, priors, edgeProbs, opts...)
	if err != nil {
		return err
	}
	if !capped {
		return writeBelief(belief)
	}

	intervalPriors, intervalEdgeProbs := projectSliceInputsToInterval(priors, edgeProbs)
	ia := algebra.IntervalAlgebra{}
	intervalCatalog, err := rebuildCatalog(topo, ia, intervalPriors)
	if err != nil {
		return err
	}
	fallbackBelief, err := propagate.Run(topo, intervalCatalog, ia, intervalPriors, intervalEdgeProbs)
	if err != nil {
		return err
	}

	return writeBelief(fallbackBelief)
}

func conditioningOptions() []propagate.Option {
	if n := cfg.GetInt("conditioning.max-set"); n > 0 {
		return []propagate.Option{propagate.WithMaxConditioningSet(n)}
	}

	return nil
}

func buildTopologyAndCatalog[V any](edges core.EdgeList, alg algebra.Algebra[V], priors map[core.NodeID]V) (*topology.Topology, diamond.Catalog, error) {
	topo, err := topology.Build(edges)
	if err != nil {
		return nil, nil, err
	}

	catalog, err := rebuildCatalog(topo, alg, priors)
	if err != nil {
		return nil, nil, err
	}

	return topo, catalog, nil
}

func rebuildCatalog[V any](topo *topology.Topology, alg algebra.Algebra[V], priors map[core.NodeID]V) (diamond.Catalog, error) {
	irrelevant := propagate.IrrelevantSources(topo.Sources, alg, priors)

	return diamond.Decompose(topo, irrelevant)
}

// writeBelief renders belief as a JSON object whose keys are written in
// ascending node-id order; Go's encoding/json would otherwise sort
// map[string]V keys lexically, which misorders multi-digit ids.
func writeBelief[V any](belief map[core.NodeID]V) error {
	ids := make([]core.NodeID, 0, len(belief))
	for id := range belief {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range ids {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fmt.Sprintf("%d", uint64(id)))
		if err != nil {
			return err
		}
		val, err := json.Marshal(belief[id])
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	_, err := os.Stdout.Write(buf.Bytes())

	return err
}
