package config

import "github.com/samber/lo"

// Level describes one life stage. Only MazeSize affects maze agreement; the
// rest is display data served to lobby tooling.
type Level struct {
	StageName string `json:"stageName" validate:"required"`
	AgeRange  string `json:"ageRange" validate:"required"`
	Quote     string `json:"quote,omitempty"`
	MazeSize  int    `json:"mazeSize" validate:"min=2,max=128"`
}

// DefaultLevels is the built-in level sequence. Clients ship the same table,
// so sizes must not change without a client release.
var DefaultLevels = []Level{
	{StageName: "Innocent Beginnings", AgeRange: "0-6", Quote: "The world is one giant playground.", MazeSize: 20},
	{StageName: "School Years", AgeRange: "7-18", Quote: "I look for direction inside the rules.", MazeSize: 28},
	{StageName: "Lost and Searching", AgeRange: "19-24", Quote: "Freedom is enchanting, and frightening.", MazeSize: 36},
	{StageName: "The Sprint", AgeRange: "25-30", Quote: "Putting down roots in a concrete jungle.", MazeSize: 44},
	{StageName: "Family and Career", AgeRange: "31-40", Quote: "Responsibility is a sweet burden.", MazeSize: 40},
	{StageName: "Carrying the Load", AgeRange: "41-50", Quote: "Parents above, children below, no time to stop.", MazeSize: 48},
	{StageName: "Making Peace", AgeRange: "51-60", Quote: "Accepting the ordinary is its own greatness.", MazeSize: 32},
	{StageName: "Free Again", AgeRange: "61-70", Quote: "At last, I belong only to myself.", MazeSize: 28},
	{StageName: "Living with Age", AgeRange: "71-80", Quote: "Memories are clearer than the future.", MazeSize: 24},
	{StageName: "The Way Home", AgeRange: "80+", Quote: "Back to the source, all is one.", MazeSize: 12},
}

// Sizes projects levels onto their maze sizes, in order.
func Sizes(levels []Level) []int {
	return lo.Map(levels, func(l Level, _ int) int {
		return l.MazeSize
	})
}
