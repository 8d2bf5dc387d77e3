package anilist

import "fmt"

var animeSubquery = `
id
idMal
title {
	romaji
	english
	native
}
description(asHtml: false)
genres
coverImage {
	large
	medium
	color
}
startDate {
	year
	month
	day
}
status
format
synonyms
siteUrl
episodes
averageScore
`

var searchByNameQuery = fmt.Sprintf(`
query ($query: String) {
	Page (page: 1, perPage: 15) {
		media (search: $query, type: ANIME) {
			%s
		}
	}
}
`, animeSubquery)

var searchByIDQuery = fmt.Sprintf(`
query ($id: Int) {
	Media (id: $id, type: ANIME) {
		%s
	}
}`, animeSubquery)
