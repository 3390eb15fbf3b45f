// Package steam talks to Steam Community: it resolves profile references
// to canonical SteamID64 identities and fetches the comment threads of
// profiles.
//
// Two collaborators are exposed:
//
//   - Resolver maps a profile reference (bare SteamID64, /profiles/ URL,
//     or /id/ vanity URL) to a SteamID via the Steam Web API, with a TTL
//     cache so repeated references resolve without network traffic.
//   - Fetcher pages through a profile's comment thread using the same
//     render endpoint the Steam website uses, and extracts comments and
//     commenter links from the returned HTML fragments.
//
// Both take an injected *http.Client so tests can point them at httptest
// servers and callers control timeouts and transport settings.
package steam
