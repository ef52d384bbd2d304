package entity

// Renderer draws the simulation. Implementations only read the values they
// are handed and must not mutate them.
type Renderer interface {
	RenderBody(body *Body, world Transform)
	RenderSpacecraft(craft *Spacecraft)
	RenderBelt(belt *Belt)
	Clear()
	Present()
}
