// Package subtask turns a selected cognitive-map edge, or a bare problem
// statement, into a three-step learning plan.
package subtask
