package api

import "fmt"

// profileQueryTemplate is the single aliased query the dashboard runs.
// %[1]s is the campus segment; Hasura-style _like filters mirror the
// platform schema.
const profileQueryTemplate = `
query {
    moduleXP: transaction(
        where: {
            type: {_eq: "xp"},
            path: {_like: "/%[1]s/module/%%"},
            _and: { path: {_nlike: "%%piscine%%"} }
        }
    ) { amount createdAt path }

    piscineGoXP: transaction(
        where: { type: {_eq: "xp"}, path: {_like: "%%piscine-go%%"} }
    ) { amount createdAt path }

    piscineJsXP: transaction(
        where: { type: {_eq: "xp"}, path: {_like: "%%piscine-js%%"} }
    ) { amount createdAt path }

    piscineUxXP: transaction(
        where: { type: {_eq: "xp"}, path: {_like: "%%piscine-ux%%"} }
    ) { amount createdAt path }

    piscineUiXP: transaction(
        where: { type: {_eq: "xp"}, path: {_like: "%%piscine-ui%%"} }
    ) { amount createdAt path }

    piscineRustXP: transaction(
        where: { type: {_eq: "xp"}, path: {_like: "%%piscine-rust%%"} }
    ) { amount createdAt path }

    skills: transaction(
        where: { type: {_like: "skill_%%"} },
        order_by: { createdAt: desc }
    ) { id type amount createdAt path }

    auditsDone: transaction(
        where: { type: {_eq: "up"}, path: {_like: "/%[1]s/module/%%"} }
    ) { amount createdAt path }

    auditsReceived: transaction(
        where: { type: {_eq: "down"}, path: {_like: "/%[1]s/module/%%"} }
    ) { amount createdAt path }

    progresses: progress(
        order_by: { createdAt: desc }
    ) { id grade createdAt path object { id name type } }

    audits: audit {
        id
        closedAt
        group { path captainLogin }
    }

    user {
        id
        login
        auditRatio
        totalUp
        totalUpBonus
        totalDown
        attrs
    }
}`

// ProfileQuery builds the aliased profile query for one campus.
func ProfileQuery(campus string) string {
	return fmt.Sprintf(profileQueryTemplate, campus)
}
