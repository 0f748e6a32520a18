/*
Package profilesdk provides a client SDK and the wire types for the profiles
service.

# Overview

The profiles service keeps one profile per Firebase identity. Every call to
/users is authenticated with a Firebase ID token sent as a bearer credential;
the service derives the profile key from the verified token, so a caller can
only ever see or change their own profile.

	client := profilesdk.NewClient("https://profiles.example.com").WithToken(idToken)

	// Create on first sign-in. Calling again returns the stored profile.
	resp, err := client.CreateProfile(ctx, "ada")

	// Read and rename.
	profile, err := client.GetProfile(ctx)
	resp, err = client.UpdateProfile(ctx, "lovelace")

# Errors

Non-2xx responses are returned as *APIError, carrying the HTTP status and the
service's message:

	var apiErr *profilesdk.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		// no profile yet
	}

The same type is used by the server to write error envelopes.
*/
package profilesdk
