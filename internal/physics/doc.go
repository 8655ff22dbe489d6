// Package physics provides the continuous-time torque model of the arm.
//
// [Arm] implements [dynamo.System] for the single-link reduction of the
// rigid-body arm. Its net torque is the sum of a set of [TorqueContributor]
// terms, by default gravity and friction:
//
//   - [GravityTorque]: -r*m*cos(theta), theta in degrees
//   - [FrictionTorque]: -k*tanh(omega), a smooth stand-in for sign(omega)
//
// All terms read from one [ArmParams] value, so the torque model and the
// integrator that drives it cannot disagree about constants.
//
// # Energy Conservation
//
// [Arm] also implements [dynamo.Hamiltonian]; with zero friction the energy
// is a constant of motion:
//
//	arm, _ := physics.NewArm(params)
//	e := arm.Energy(dynamo.State{theta, omega})
package physics
