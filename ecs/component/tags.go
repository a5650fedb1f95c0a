package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// PropTag marks dynamic bodies that can be grabbed or pushed by a ground pound.
type PropTag struct{}

var PropTagComponent = NewComponent[PropTag]()

// StaticTag marks level geometry.
type StaticTag struct{}

var StaticTagComponent = NewComponent[StaticTag]()
