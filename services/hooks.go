package services

import "log"

// runPostCommitHooks executes side effects after the primary mutation has
// committed. Each hook is isolated: a failure or panic is logged and never
// affects the other hooks or the committed result.
func runPostCommitHooks(label string, hooks []func() error) {
	for _, hook := range hooks {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Printf("%s: post-commit hook panicked: %v", label, r)
				}
			}()
			if err := hook(); err != nil {
				log.Printf("%s: post-commit hook failed: %v", label, err)
			}
		}()
	}
}
