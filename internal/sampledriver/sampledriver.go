// Package sampledriver wires a concrete task graph against the sample game
// program (Player, Level, game, test) used throughout spec.md §8's
// end-to-end scenarios. It is payload, not engine: nothing in package
// engine or package rules imports it, and it exists only so the engine can
// be exercised against literal inputs by cmd/maek. This package has no
// tests of its own.
package sampledriver

import (
	"github.com/jcreedcmu/maek/internal/engine"
	"github.com/jcreedcmu/maek/internal/rules"
)

// Configure registers the sample game's build graph against e: four CPP
// compiles, two LINK steps (dist/game and test/game-test), a :test rule
// that runs the test executable, and a :dist rule that depends on the game
// executable — resolving spec.md §9 open question 1 by giving :dist a
// definition rather than leaving it dangling.
func Configure(e *engine.Engine) error {
	playerObj, err := rules.CPP(e, "Player.cpp", "", rules.Options{})
	if err != nil {
		return err
	}
	levelObj, err := rules.CPP(e, "Level.cpp", "", rules.Options{})
	if err != nil {
		return err
	}
	gameObj, err := rules.CPP(e, "game.cpp", "", rules.Options{})
	if err != nil {
		return err
	}
	testObj, err := rules.CPP(e, "test.cpp", "", rules.Options{})
	if err != nil {
		return err
	}

	gameExe, err := rules.LINK(e, []string{playerObj, levelObj, gameObj}, "dist/game", rules.Options{})
	if err != nil {
		return err
	}
	testExe, err := rules.LINK(e, []string{playerObj, levelObj, testObj}, "test/game-test", rules.Options{})
	if err != nil {
		return err
	}

	rules.RULE(e, []string{":test"}, []string{testExe}, [][]string{{testExe, "--all-tests"}})
	rules.RULE(e, []string{":dist"}, []string{gameExe}, nil)

	return nil
}
