// Package main implements countdown, a CLI that searches for an arithmetic
// expression over six numbers that evaluates to a target.
//
// # Rules
//
// Each number may be used at most once. The operators are + - * / and every
// intermediate result must be a non-negative integer: subtraction may not go
// below zero and division must be exact. Expressions are written and printed
// in postfix notation, so "7 2 3 * -" means 7 - (2 * 3).
//
// # Search
//
// Five operator slots are filled from the four operators in every possible
// way, and the resulting pool of six numbers and five operators is arranged
// in every order of length 11, 9, 7, 5 and 3. Arrangements are evaluated in
// parallel and the first one that hits the target is printed. Which solution
// is printed is not deterministic.
//
// # Usage
//
//	countdown [--config PATH] [--workers N] [--explain] [--verbose] N1 N2 N3 N4 N5 N6 TARGET
//	countdown serve [--config PATH] [--workers N]
//
// A wrong argument count exits with status 64. When no expression exists the
// program prints "no solution!" and exits with status 0.
//
// The serve command exposes the solver as Model Context Protocol tools over
// stdio.
package main
