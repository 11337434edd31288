// Package pregel provides an in-process, vertex-centric graph computation
// engine following the bulk synchronous parallel model.
//
// A Computation supplies per-node logic. The engine runs it over an
// immutable graph in synchronized supersteps: every active node reads the
// messages sent to it in the previous superstep, updates its values, sends
// messages and may vote to halt. A halted node becomes active again when it
// receives a message. The run converges once every node halted and no
// message was sent.
//
// # Quick Start
//
//	g, _ := graph.NewBuilder(3).
//	    AddRelationship(0, 1).
//	    AddRelationship(1, 2).
//	    Build()
//
//	engine, _ := pregel.New(g, &MyComputation{}, pregel.WithMaxIterations(30))
//	defer engine.Release()
//
//	res, err := engine.Run(ctx)
//	if err != nil {
//	    // *pregel.ComputeError carries node and superstep of the failure
//	}
//	ranks, _ := res.Values.Doubles("rank")
//
// # Node Values
//
// A Computation declares its per-node slots with a Schema. Slots are stored
// column-wise and written only by the compute step owning the node, so
// accessors need no locking. Private slots are scratch space and are hidden
// from Result.Values.
//
//	func (c *MyComputation) Schema() *pregel.Schema {
//	    return pregel.NewSchema().
//	        AddDouble("rank", 0, pregel.Public).
//	        AddLong("round", 0, pregel.Private)
//	}
//
// # Messages
//
// Without a reducer every message is queued per target node; queue memory
// can be bounded with WithMessageMemoryLimit. A ReducingComputation folds
// messages at send time (SumReducer, MinReducer, MaxReducer, CountReducer),
// bounding message memory to one value per node.
//
// # Parallelism
//
// The id space is split into contiguous partitions (WithPartitioning), one
// compute step each, processed by a worker pool (WithConcurrency,
// WithExecutor). Within a partition nodes are visited in ascending id order.
// Messages are never delivered within the superstep they were sent in, so
// results do not depend on scheduling (except the order of un-reduced
// messages).
//
// # Observability
//
//	engine, _ := pregel.New(g, c,
//	    pregel.WithLogger(pregel.NewJSONLogger(slog.LevelInfo)),
//	    pregel.WithProgressTracker(&pregel.BasicProgressTracker{}),
//	)
package pregel
