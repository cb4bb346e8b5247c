package process

// ProcessFinder defines operations for discovering processes
type ProcessFinder interface {
	// FindProcessByPID finds a process by its PID
	FindProcessByPID(pid ProcessID) (*ProcessInfo, error)

	// FindProcessByName finds processes by their executable name (case-insensitive exact match)
	FindProcessByName(name string) ([]ProcessInfo, error)
}
