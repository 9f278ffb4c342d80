// Package console plays the tile merge game on a plain text terminal.
//
// Play reads one command per line (w/a/s/d, r to restart, q to quit) and
// redraws the board after every move. Simulate plays seeded random games
// and prints win counts, the best tile and the spawn mix.
//
// Both talk to the game only through service.GameService.
package console
