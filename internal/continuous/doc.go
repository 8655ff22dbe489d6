// Package continuous integrates the single-link arm in continuous time, as
// an independent check on the rigid-body scene.
//
// A [Trajectory] couples a [physics.Arm] with an initial state, an output
// [Grid] and solver [Options]. Samples are produced lazily and every call
// starts from the initial state:
//
//	tr, _ := continuous.NewTrajectory(arm, x0, continuous.Linspace(0, 5, 200), opts)
//	for s, err := range tr.Samples() {
//	    if err != nil {
//	        // *SolverError: tolerance not met, stopped early
//	        break
//	    }
//	    fmt.Println(s.T, s.Theta, s.Omega)
//	}
//
// [Solve] collects the same run into a [Result] with a success flag and the
// solver's diagnostic message.
package continuous
