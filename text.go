package main

// User-facing copy returned by the API and printed by the CLI.
var (
	ContactSuccess = `Thank you for your message! Your mail client will open with everything filled in.`

	ContactInvalid = `Please check the highlighted fields and try again.`

	AdminDefaultCredentials = `Using default admin credentials. Set ADMIN_USERNAME and ADMIN_PASSWORD.`

	AdminUnavailable = `Content editing is disabled. Set CONTENT_DB to enable the admin catalog.`

	RootLong = `portfolio serves the portfolio site's content and choreography.

The choreography (which sections reveal on mount, which on scroll, how
timelines are staggered, which modals exist) is compiled from YAML and can
be inspected with "plan" or walked through headlessly with "simulate".`

	SimulateLong = `Mounts every section on a headless frame loop and plays a visitor script
against it, printing each choreography event with its simulated time.

Without --script the built-in tour is played: wait for the preloader, hover
the hero button, scroll through about and projects, open and close a
project, jump to contact and submit the form.`
)
