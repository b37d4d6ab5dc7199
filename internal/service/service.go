package service

// Application routes the services ask the front end to show
const (
	RouteLogin    = "/login"
	RouteProblems = "/problems/1"
)

// Navigator is how services ask the application to change view.
// The CLI logs the transition; a UI front end would route on it.
type Navigator interface {
	NavigateTo(route string)
}

// NavigatorFunc adapts a plain function to Navigator
type NavigatorFunc func(route string)

func (f NavigatorFunc) NavigateTo(route string) {
	f(route)
}
