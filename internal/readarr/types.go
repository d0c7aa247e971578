package readarr

// Book represents a work as returned by Readarr's lookup or list endpoints.
type Book struct {
	ID               int         `json:"id,omitempty"`
	Title            string      `json:"title"`
	AuthorTitle      string      `json:"authorTitle,omitempty"`
	SeriesTitle      string      `json:"seriesTitle,omitempty"`
	Disambiguation   string      `json:"disambiguation,omitempty"`
	Overview         string      `json:"overview,omitempty"`
	Images           []Image     `json:"images,omitempty"`
	Links            []Link      `json:"links,omitempty"`
	Statistics       *Statistics `json:"statistics,omitempty"`
	Genres           []string    `json:"genres,omitempty"`
	Ratings          *Ratings    `json:"ratings,omitempty"`
	ReleaseDate      string      `json:"releaseDate,omitempty"`
	PageCount        int         `json:"pageCount,omitempty"`
	Added            string      `json:"added,omitempty"`
	RemoteCover      string      `json:"remoteCover,omitempty"`
	Editions         []Edition   `json:"editions,omitempty"`
	Grabbed          bool        `json:"grabbed,omitempty"`
	Author           *Author     `json:"author,omitempty"`
	AuthorID         int         `json:"authorId,omitempty"`
	Monitored        bool        `json:"monitored,omitempty"`
	AnyEditionOk     *bool       `json:"anyEditionOk,omitempty"`
	QualityProfileID int         `json:"qualityProfileId,omitempty"`
	TitleSlug        string      `json:"titleSlug,omitempty"`
	RootFolderPath   string      `json:"rootFolderPath,omitempty"`
	ForeignBookID    string      `json:"foreignBookId,omitempty"`
	ForeignEditionID string      `json:"foreignEditionId,omitempty"`
}

// HasFile reports whether Readarr has at least one file for the book.
func (b *Book) HasFile() bool {
	return b.Statistics != nil && b.Statistics.BookFileCount > 0
}

// Author represents a catalog author.
type Author struct {
	ID                int         `json:"id,omitempty"`
	AuthorName        string      `json:"authorName"`
	ForeignAuthorID   string      `json:"foreignAuthorId,omitempty"`
	TitleSlug         string      `json:"titleSlug,omitempty"`
	Overview          string      `json:"overview,omitempty"`
	Links             []Link      `json:"links,omitempty"`
	Images            []Image     `json:"images,omitempty"`
	Path              string      `json:"path,omitempty"`
	QualityProfileID  int         `json:"qualityProfileId,omitempty"`
	MetadataProfileID int         `json:"metadataProfileId,omitempty"`
	Genres            []string    `json:"genres,omitempty"`
	CleanName         string      `json:"cleanName,omitempty"`
	SortName          string      `json:"sortName,omitempty"`
	Tags              []int       `json:"tags,omitempty"`
	Added             string      `json:"added,omitempty"`
	Ratings           *Ratings    `json:"ratings,omitempty"`
	Statistics        *Statistics `json:"statistics,omitempty"`
	Monitored         bool        `json:"monitored,omitempty"`
	MonitorNewItems   string      `json:"monitorNewItems,omitempty"`
}

// Edition is a specific published form of a Book.
type Edition struct {
	ID               int      `json:"id,omitempty"`
	BookID           int      `json:"bookId,omitempty"`
	ForeignEditionID string   `json:"foreignEditionId"`
	TitleSlug        string   `json:"titleSlug,omitempty"`
	ISBN13           string   `json:"isbn13"`
	ASIN             string   `json:"asin"`
	Title            string   `json:"title"`
	Overview         string   `json:"overview"`
	Format           string   `json:"format"`
	IsEbook          bool     `json:"isEbook"`
	Publisher        string   `json:"publisher"`
	PageCount        int      `json:"pageCount"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`
	Images           []Image  `json:"images"`
	Links            []Link   `json:"links"`
	Ratings          *Ratings `json:"ratings,omitempty"`
	Monitored        bool     `json:"monitored"`
	ManualAdd        bool     `json:"manualAdd,omitempty"`
	Grabbed          bool     `json:"grabbed,omitempty"`
}

// Image is a cover image reference.
type Image struct {
	URL       string `json:"url"`
	CoverType string `json:"coverType"`
	Extension string `json:"extension,omitempty"`
	RemoteURL string `json:"remoteUrl,omitempty"`
}

// Link is a named external URL.
type Link struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Ratings holds aggregate rating data.
type Ratings struct {
	Votes      int     `json:"votes"`
	Value      float64 `json:"value"`
	Popularity float64 `json:"popularity,omitempty"`
}

// Statistics holds file counts for a book or author.
type Statistics struct {
	BookFileCount  int     `json:"bookFileCount"`
	BookCount      int     `json:"bookCount"`
	TotalBookCount int     `json:"totalBookCount,omitempty"`
	SizeOnDisk     int64   `json:"sizeOnDisk"`
	PercentOfBooks float64 `json:"percentOfBooks,omitempty"`
}

// QualityProfile represents a quality profile from GET /api/v1/qualityprofile.
type QualityProfile struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RootFolder represents a root folder from GET /api/v1/rootfolder.
type RootFolder struct {
	ID         int    `json:"id"`
	Path       string `json:"path"`
	Accessible bool   `json:"accessible"`
	FreeSpace  int64  `json:"freeSpace,omitempty"`
}

// BookFile represents a downloaded file record from GET /api/v1/bookfile.
type BookFile struct {
	ID        int    `json:"id"`
	AuthorID  int    `json:"authorId"`
	BookID    int    `json:"bookId"`
	Path      string `json:"path"`
	Size      int64  `json:"size"`
	DateAdded string `json:"dateAdded"`
	EditionID int    `json:"editionId"`
}

// AddOptions controls Readarr behavior when a book is added.
type AddOptions struct {
	Monitor              string `json:"monitor"`
	SearchForNewBook     bool   `json:"searchForNewBook"`
	SearchForMissingBook bool   `json:"searchForMissingBook"`
}

// BookPayload is the fully-assembled body for POST /api/v1/book.
type BookPayload struct {
	Title             string     `json:"title"`
	TitleSlug         string     `json:"titleSlug,omitempty"`
	Author            *Author    `json:"author"`
	Editions          []Edition  `json:"editions"`
	Monitored         bool       `json:"monitored"`
	AnyEditionOk      bool       `json:"anyEditionOk"`
	AuthorID          int        `json:"authorId"`
	ForeignBookID     string     `json:"foreignBookId,omitempty"`
	QualityProfileID  int        `json:"qualityProfileId"`
	MetadataProfileID int        `json:"metadataProfileId"`
	RootFolderPath    string     `json:"rootFolderPath"`
	AddOptions        AddOptions `json:"addOptions"`
}

// QueueItem is a single in-progress transfer from GET /api/v1/queue.
type QueueItem struct {
	ID                      int     `json:"id"`
	BookID                  int     `json:"bookId"`
	Book                    *Book   `json:"book,omitempty"`
	Title                   string  `json:"title"`
	SizeLeft                float64 `json:"sizeleft"`
	Size                    float64 `json:"size"`
	Status                  string  `json:"status"`
	TrackedDownloadStatus   string  `json:"trackedDownloadStatus,omitempty"`
	TrackedDownloadState    string  `json:"trackedDownloadState,omitempty"`
	DownloadID              string  `json:"downloadId,omitempty"`
	Protocol                string  `json:"protocol,omitempty"`
	DownloadClient          string  `json:"downloadClient,omitempty"`
	OutputPath              string  `json:"outputPath,omitempty"`
	EstimatedCompletionTime string  `json:"estimatedCompletionTime,omitempty"`
	TimeLeft                string  `json:"timeleft,omitempty"`
}

// Queue is the paged response from GET /api/v1/queue.
type Queue struct {
	Page          int         `json:"page"`
	PageSize      int         `json:"pageSize"`
	SortKey       string      `json:"sortKey,omitempty"`
	SortDirection string      `json:"sortDirection,omitempty"`
	TotalRecords  int         `json:"totalRecords"`
	Records       []QueueItem `json:"records"`
}

// CommandBody is the request body for POST /api/v1/command.
type CommandBody struct {
	Name     string `json:"name"`
	AuthorID int    `json:"authorId,omitempty"`
	BookIDs  []int  `json:"bookIds,omitempty"`
}

// CommandResponse is the response from POST /api/v1/command.
type CommandResponse struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// SystemStatus represents the response from GET /api/v1/system/status.
type SystemStatus struct {
	Version string `json:"version"`
	AppName string `json:"appName"`
}
