// Package diffeq provides the core primitives of the differential-equation
// engine.
//
// The package defines the shared vocabulary of ODE, SDE, and CDE solves:
//
//   - [State]: vector representing the equation state y(t)
//   - [Term]: one additive right-hand-side component (evaluate + contract)
//   - [Terms]: a complete right-hand side, one term per driving control
//   - [Path]: supplier of step increments (time, Brownian noise, control)
//
// # Example
//
//	terms := diffeq.ODE(func(t float64, y diffeq.State, args diffeq.Args) diffeq.State {
//	    return diffeq.State{-y[0]}
//	})
//	sol, _ := solve.Solve(ctx, solver.NewDopri5(), solve.Problem{
//	    Terms: terms, T0: 0, T1: 1, Dt0: 0.1, Y0: diffeq.State{1},
//	}, solve.Options{})
//
// # Thread Safety
//
// Terms and Paths must be safe for reuse across sequential solves but are
// never shared mid-solve; solver and controller state are exclusively owned
// by one in-flight solve. For parallel solves over a batch of initial
// conditions, use the solve package's Batch type, which gives each replica
// its own solver and controller instances.
package diffeq
